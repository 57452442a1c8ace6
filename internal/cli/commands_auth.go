package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/mentra-app/mentra-cli/internal/api"
	"github.com/mentra-app/mentra-cli/internal/authflow"
)

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	google := fs.Bool("google", false, "sign in with Google")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *google {
		return a.loginGoogle(ctx)
	}

	identity, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return report(a.out, err)
	}
	fmt.Fprintf(a.out, "giriş yapıldı: %s (%s)\n", identity.FullName, identity.Email)
	return nil
}

// loginGoogle drives the browser round trip: fetch the authorization URL,
// catch the token on a loopback listener, adopt it.
func (a *App) loginGoogle(ctx context.Context) error {
	authURL, err := a.client.GoogleLoginURL(ctx)
	if err != nil {
		return report(a.out, err)
	}

	listener, err := authflow.NewListener(a.cfg.CallbackAddr, a.logger)
	if err != nil {
		return fmt.Errorf("starting callback listener: %w", err)
	}
	listener.Start()
	defer listener.Close()

	fmt.Fprintf(a.out, "Tarayıcıda açın:\n\n  %s\n\nYönlendirme bekleniyor (%s)...\n",
		authURL, listener.RedirectURL())

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	token, err := listener.Wait(waitCtx)
	if err != nil {
		return fmt.Errorf("waiting for google redirect: %w", err)
	}

	identity, err := a.session.AdoptToken(ctx, token)
	if err != nil {
		return report(a.out, err)
	}
	fmt.Fprintf(a.out, "giriş yapıldı: %s (%s)\n", identity.FullName, identity.Email)
	return nil
}

func (a *App) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.out)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "full name")
	password := fs.String("password", "", "password (min 6 characters)")
	subject := fs.String("subject", "", "taught subject (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := api.RegisterRequest{Email: *email, FullName: *name, Password: *password}
	if *subject != "" {
		req.Subject = subject
	}
	resp, err := a.client.Register(ctx, req)
	if err != nil {
		return report(a.out, err)
	}
	if err := a.session.Establish(resp.Token, &resp.User); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "hesap oluşturuldu: %s\n", resp.User.Email)
	return nil
}

func (a *App) cmdLogout() error {
	if err := a.session.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "çıkış yapıldı")
	return nil
}

func (a *App) cmdWhoami() error {
	identity := a.session.Current()
	if identity == nil {
		fmt.Fprintln(a.out, "oturum açılmamış")
		return nil
	}
	fmt.Fprintf(a.out, "%s (@%s)\n", identity.FullName, identity.Username)
	fmt.Fprintf(a.out, "  email: %s\n  rol:   %s\n", identity.Email, identity.Role)
	if identity.Subject != nil {
		fmt.Fprintf(a.out, "  branş: %s\n", *identity.Subject)
	}
	return nil
}
