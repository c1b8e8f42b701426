// Command ghoreport prints and exports health indicator trends from the
// configured GHO extract without starting the web server.
//
// Usage:
//
//	ghoreport indicators --query mortality
//	ghoreport trend --indicator "Life expectancy at birth (years)" --from 2000 --to 2019
//	ghoreport export --format xlsx --out trend.xlsx
//	ghoreport chart --out trend.png
//	ghoreport interest --indicator "Life expectancy at birth (years)"
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
