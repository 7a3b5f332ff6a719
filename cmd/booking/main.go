package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	envLoaded := godotenv.Load() == nil

	if err := newRootCmd(envLoaded).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
