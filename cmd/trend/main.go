package main

import (
	"log"
	"os"

	"trend/internal/app"
)

func main() {
	args := os.Args[1:]

	var err error
	switch {
	case len(args) > 0 && args[0] == "insert-hash":
		err = app.InsertHash(args[1:])
	case len(args) == 0 || args[0] == "run":
		err = app.Run()
	default:
		log.Fatalf("unknown subcommand %q (want run or insert-hash)", args[0])
	}

	if err != nil {
		log.Fatal(err)
	}
}
