package display

import (
	"fmt"
	"os"

	"github.com/backmassage/backdrop/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	fmt.Fprint(os.Stdout, term.Magenta)
	fmt.Fprint(os.Stdout, ` _                _       _
| |__   __ _  ___| | ____| |_ __ ___  _ __
| '_ \ / _`+"`"+` |/ __| |/ / _`+"`"+` | '__/ _ \| '_ \
| |_) | (_| | (__|   < (_| | | | (_) | |_) |
|_.__/ \__,_|\___|_|\_\__,_|_|  \___/| .__/
                                     |_|
`)
	if term.NC != "" {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
