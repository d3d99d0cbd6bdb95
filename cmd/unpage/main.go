// Package main provides the unpage command.
//
// unpage fetches every page of a paginated JSON API and prints the
// concatenated entries as one JSON array.
//
// Usage:
//
//	unpage https://api.example.com/items
//	unpage -D data -N links.next -L links.last https://api.example.com/items
//
// See --help for all available options.
package main

func main() {
	Execute()
}
