package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/smarttransit/flight-route-backend/internal/utils"
)

func main() {
	password := flag.String("password", "", "admin password to hash for ADMIN_PASSWORD_HASH")
	flag.Parse()

	fmt.Println("===========================================")
	fmt.Println("Admin Secret Generator")
	fmt.Println("===========================================")
	fmt.Println()

	secret, err := utils.GenerateSecret(32) // 256-bit
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Printf("ADMIN_JWT_SECRET=%s\n", secret)

	if *password != "" {
		hash, err := utils.HashPassword(*password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Printf("ADMIN_PASSWORD_HASH='%s'\n", hash)
	} else {
		fmt.Println("# Pass -password to also print ADMIN_PASSWORD_HASH")
	}

	fmt.Println()
	fmt.Println("Keep these secrets safe and never commit them to version control!")
	fmt.Println("===========================================")
}
