package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password, or with Google or GitHub",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		provider, _ := cmd.Flags().GetString("provider")

		var sess *auth.Session
		if provider != "" {
			fmt.Printf("Opening your browser to sign in with %s...\n", provider)
			sess, err = e.auth.SignInWithOAuth(ctx, provider, func(url string) error {
				if err := browser.OpenURL(url); err != nil {
					fmt.Println("Open this URL to continue:", url)
				}
				return nil
			})
		} else {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if email, err = flagOrPrompt(email, "Email: ", false); err != nil {
				return err
			}
			if password, err = flagOrPrompt(password, "Password: ", true); err != nil {
				return err
			}
			sess, err = e.auth.SignIn(ctx, email, password)
		}
		if err != nil {
			return errors.New(auth.Friendly(err))
		}

		fmt.Println("Signed in as", sess.Email)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		in := auth.SignUpInput{}
		in.FullName, _ = cmd.Flags().GetString("name")
		in.Email, _ = cmd.Flags().GetString("email")
		in.Password, _ = cmd.Flags().GetString("password")

		if in.FullName, err = flagOrPrompt(in.FullName, "Full name: ", false); err != nil {
			return err
		}
		if in.Email, err = flagOrPrompt(in.Email, "Email: ", false); err != nil {
			return err
		}
		if in.Password, err = flagOrPrompt(in.Password, "Password: ", true); err != nil {
			return err
		}
		in.Confirm = in.Password
		if !cmd.Flags().Changed("password") {
			if in.Confirm, err = readSecret("Confirm password: "); err != nil {
				return err
			}
		}

		sess, err := e.auth.SignUp(cmd.Context(), in)
		if err != nil {
			return errors.New(auth.Friendly(err))
		}
		if sess == nil {
			fmt.Println("Account created. Check your email to confirm it, then run `sensei login`.")
			return nil
		}
		fmt.Println("Account created. Signed in as", sess.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.auth.SignOut(cmd.Context()); err != nil {
			return fmt.Errorf("sign out: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		sess, err := e.session(ctx)
		if err != nil {
			return err
		}

		name := sess.FullName
		if p, err := e.data.GetProfile(ctx, sess.UserID); err == nil && p != nil && p.FullName != "" {
			name = p.FullName
		}

		fmt.Printf("User:     %s\n", sess.UserID)
		fmt.Printf("Email:    %s\n", sess.Email)
		if name != "" {
			fmt.Printf("Name:     %s\n", name)
		}
		if !sess.ExpiresAt.IsZero() {
			fmt.Printf("Token:    expires %s (in %s)\n",
				sess.ExpiresAt.Local().Format("2006-01-02 15:04:05"),
				time.Until(sess.ExpiresAt).Round(time.Second))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted when omitted)")
	loginCmd.Flags().String("provider", "", "OAuth provider: google or github")

	signupCmd.Flags().String("email", "", "Account email")
	signupCmd.Flags().String("password", "", "Account password (prompted when omitted)")
	signupCmd.Flags().String("name", "", "Full name")
}
