package main

import (
	"log"

	"github.com/santralytics/santralytics/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
