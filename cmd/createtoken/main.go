package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"hadirin.app/hadirin/security"
)

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("usage: createtoken <user-id> [email]")
	}

	identity := &security.EmployeeIdentity{UserID: os.Args[1]}
	if len(os.Args) > 2 {
		identity.Email = os.Args[2]
	}

	token, err := security.CreateIdentityToken(identity, []byte(os.Getenv("JWT_SECRET")), time.Hour)
	if err != nil {
		log.Fatalf("failed to create token: %v", err)
	}
	fmt.Println(token)
}
