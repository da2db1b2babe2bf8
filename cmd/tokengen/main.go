package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	key := flag.String("key", "", "HS256 signing key (matches auth.signing_key)")
	user := flag.String("user", "", "user id to place in the sub claim")
	issuer := flag.String("issuer", "", "optional iss claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *key == "" || *user == "" {
		fmt.Println("Usage: go run cmd/tokengen/main.go -key <signing-key> -user <user-id> [-issuer <iss>] [-ttl 1h]")
		fmt.Println("Mints a signed user token for local testing against /api/products")
		os.Exit(1)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   *user,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
	}
	if *issuer != "" {
		claims.Issuer = *issuer
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(*key))
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
