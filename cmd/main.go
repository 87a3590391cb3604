// cmd/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"service-desk/app"
)

// @title           Service Desk API
// @version         1.0
// @description     Request tracking: users submit service requests, administrators triage them.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
func main() {
	command := flag.String("command", "serve", "serve, migrate or createsuperuser")
	configPath := flag.String("config", ".", "directory containing config.yml")
	username := flag.String("username", "", "createsuperuser: username")
	email := flag.String("email", "", "createsuperuser: email")
	password := flag.String("password", "", "createsuperuser: password")
	flag.Parse()

	switch *command {
	case "serve":
		app.Run(*configPath)
	case "migrate":
		if err := app.Migrate(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
	case "createsuperuser":
		if err := app.CreateSuperuser(*configPath, *username, *email, *password); err != nil {
			fmt.Fprintf(os.Stderr, "createsuperuser: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", *command)
		flag.Usage()
		os.Exit(2)
	}
}
