package main

import (
	"os"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
