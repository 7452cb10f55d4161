package main

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/pokkur/layr/adapters/hasher"
	"github.com/pokkur/layr/adapters/random"
)

var generateToken bool

var hashTokenCmd = &cobra.Command{
	Use:   "hash-token [token]",
	Short: "Hash a bearer token for auth.token_hash",
	Long: `Hash a bearer token with bcrypt for use in the configuration.

The resulting hash goes in auth.token_hash (or LAYRD_AUTH_TOKEN_HASH).
Clients send the plaintext token in the Authorization header.

With no argument the token is read from the terminal without echo.
With --generate a fresh random token is created and printed alongside
its hash.

Examples:
  layrd hash-token
  layrd hash-token my-secret-token
  layrd hash-token --generate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHashToken,
}

func init() {
	hashTokenCmd.Flags().BoolVar(&generateToken, "generate", false, "generate a random token instead of reading one")
	rootCmd.AddCommand(hashTokenCmd)
}

func runHashToken(cmd *cobra.Command, args []string) error {
	if generateToken && len(args) == 1 {
		return fmt.Errorf("cannot combine --generate with a token argument")
	}

	var token string
	switch {
	case generateToken:
		t, err := random.Real{}.Token(48)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}
		token = t
	case len(args) == 1:
		token = args[0]
	default:
		t, err := promptToken("Token: ")
		if err != nil {
			return err
		}
		token = t
	}

	if token == "" {
		return fmt.Errorf("token must not be empty")
	}

	h := hasher.NewBcrypt(bcrypt.DefaultCost)
	hash, err := h.Hash(token)
	if err != nil {
		return fmt.Errorf("hash token: %w", err)
	}

	if generateToken {
		fmt.Printf("Token: %s\n", token)
		fmt.Printf("Hash:  %s\n", string(hash))
		return nil
	}

	fmt.Println(string(hash))
	return nil
}

func promptToken(prompt string) (string, error) {
	fmt.Print(prompt)
	token, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Print newline after hidden input
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return string(token), nil
}
