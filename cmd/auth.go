package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/fintrack/internal/auth"
	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/logger"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagAuthName     string
	flagAuthEmail    string
	flagAuthPassword string
	flagAuthToken    bool
)

var errNoAccounts = errors.New("the configured store cannot hold accounts; use the sqlite backend")

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a local account and make it the active profile",
	RunE:  runSignUp,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to a local account and make it the active profile",
	RunE:  runLogin,
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().StringVar(&flagAuthEmail, "email", "", "Email address")
		c.Flags().StringVar(&flagAuthPassword, "password", "", "Password (prompted when omitted)")
		c.Flags().BoolVar(&flagAuthToken, "token", false, "Print an API token for `fintrack serve`")
	}
	signupCmd.Flags().StringVar(&flagAuthName, "name", "", "Display name")
	rootCmd.AddCommand(signupCmd, loginCmd)
}

// withProvider opens the store as an account repository.
func withProvider(ctx context.Context, fn func(auth.Provider) (auth.User, error)) (auth.User, error) {
	st, err := openStore(ctx)
	if err != nil {
		return auth.User{}, err
	}
	defer func() { _ = st.Close() }()

	provider := providerFor(st)
	if provider == nil {
		return auth.User{}, errNoAccounts
	}
	return fn(provider)
}

func runSignUp(c *cobra.Command, _ []string) error {
	in := auth.SignUpInput{Name: flagAuthName, Email: flagAuthEmail, Password: flagAuthPassword, Confirm: flagAuthPassword}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Name").Value(&in.Name),
			huh.NewInput().Title("Email").Value(&in.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&in.Password),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&in.Confirm),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	u, err := withProvider(c.Context(), func(p auth.Provider) (auth.User, error) {
		return p.SignUp(c.Context(), in)
	})
	if err != nil {
		return authFailure(err)
	}
	return activate(u, "Account created")
}

func runLogin(c *cobra.Command, _ []string) error {
	in := auth.SignInInput{Email: flagAuthEmail, Password: flagAuthPassword}
	if in.Email == "" || in.Password == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Email").Value(&in.Email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&in.Password),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	u, err := withProvider(c.Context(), func(p auth.Provider) (auth.User, error) {
		return p.SignIn(c.Context(), in)
	})
	if err != nil {
		return authFailure(err)
	}
	return activate(u, "Signed in")
}

// authFailure logs the cause and returns the message meant for the user.
func authFailure(err error) error {
	if errors.Is(err, errNoAccounts) {
		return err
	}
	logger.Get().Debug("identity failure", zap.Error(err))
	return errors.New(auth.Message(err))
}

// activate stores u as the active profile.
func activate(u auth.User, verb string) error {
	saved, err := config.Load()
	if err != nil {
		return err
	}
	saved.Profile.UserID = u.ID
	saved.Profile.Email = u.Email
	saved.Profile.DisplayName = u.Name
	if err := config.Save(saved); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cfg.Profile = saved.Profile

	fmt.Printf("  %s: %s <%s>\n", verb, u.Name, u.Email)
	if !flagAuthToken {
		return nil
	}
	tokens, err := newTokens()
	if err != nil {
		return err
	}
	token, err := tokens.Issue(u.ID, u.Email)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "  API token:")
	fmt.Println(token)
	return nil
}
