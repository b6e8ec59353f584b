// Command hashpass prints an ADMIN_PASSWORD_HASH value for a password.
package main

import (
	"fmt"
	"os"

	"councilboard/internal/utils"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpass <password>")
		os.Exit(2)
	}
	hash, err := utils.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
