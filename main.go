// Package main is the entry point of importmover, which rewrites JavaScript
// import paths after the files they point at were moved or deleted.
package main

import "importmover/cmd"

func main() {
	cmd.Execute()
}
