// Package main prints a bearer access token for an account owner.
//
// Logins are handled outside of the ledger, this is for operators and local
// development only.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

func main() {
	owner := flag.String("owner", "", "account owner the token is issued to")
	configDir := flag.String("config", "./configs", "directory holding app.env")
	flag.Parse()

	if *owner == "" {
		flag.Usage()
		os.Exit(2)
	}

	config, err := configpkg.Load(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	maker, err := tokenpkg.NewMaker(config.TokenKind, config.TokenSymmetricKey)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create token maker")
	}

	token, payload, err := maker.CreateToken(*owner, config.AccessTokenDuration)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create token")
	}

	log.Info().Str("owner", payload.Username).Time("expires_at", payload.ExpiredAt).Msg("token issued")
	fmt.Println(token)
}
