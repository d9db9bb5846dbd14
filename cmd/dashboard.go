package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/client"
	"github.com/frahmantamala/performance-tracker/internal/session"
	"github.com/frahmantamala/performance-tracker/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotLoggedIn = errors.New("not logged in, run `performance-tracker login` first")

// dashboard is the client half: a REST client whose token comes from the session store.
type dashboard struct {
	cfg     *internal.Config
	api     *client.Client
	session *session.Store
	out     io.Writer
}

func newDashboard(ctx context.Context, cfg *internal.Config, out io.Writer) (*dashboard, error) {
	path := cfg.Client.SessionFile
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate a session directory: %w", err)
		}
		path = filepath.Join(dir, "performance-tracker", "session.gob")
	}

	store, err := session.OpenFileStore(path)
	if err != nil {
		return nil, err
	}

	lg := logger.From(ctx)
	api := client.New(client.Config{BaseURL: cfg.Client.APIURL, Timeout: cfg.Client.Timeout}, lg)
	sess := session.Open(ctx, store, api.Auth, session.WithLogger(lg))
	api.SetTokenSource(sess)

	return &dashboard{cfg: cfg, api: api, session: sess, out: out}, nil
}

func openDashboard(cmd *cobra.Command) (*dashboard, error) {
	cfg, err := loadClientConfig(configPath)
	if err != nil {
		return nil, err
	}
	return newDashboard(cmd.Context(), cfg, cmd.OutOrStdout())
}

func (d *dashboard) requireLogin() (session.Identity, error) {
	id, ok := d.session.Identity()
	if !ok {
		return session.Identity{}, errNotLoggedIn
	}
	return id, nil
}

func (d *dashboard) requireAdmin() error {
	if _, err := d.requireLogin(); err != nil {
		return err
	}
	if !d.session.IsAdmin() {
		return internal.ErrAdminRequired
	}
	return nil
}

func (d *dashboard) pageSize(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if d.cfg.Client.PageSize > 0 {
		return d.cfg.Client.PageSize
	}
	return 10
}

func (d *dashboard) login(ctx context.Context, username, password string) error {
	id, err := d.session.Login(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(d.out, "Logged in as %s (%s)\n", id.Username, id.Role)
	if !d.session.TutorialSeen() {
		d.printTutorial(id)
		if err := d.session.MarkTutorialSeen(); err != nil {
			logger.LoggerWrapper().Warn("could not store tutorial flag", "error", err)
		}
	}
	return nil
}

func (d *dashboard) printTutorial(id session.Identity) {
	fmt.Fprintln(d.out, "\nGetting started:")
	fmt.Fprintln(d.out, "  employees --preset high_risk   employees most likely to leave")
	fmt.Fprintln(d.out, "  employees --search ann         search by name or email")
	if id.Role == internal.RoleAdmin {
		fmt.Fprintln(d.out, "  analytics --department IT      dashboard figures for one department")
		fmt.Fprintln(d.out, "  predict --all                  refresh every prediction")
	} else {
		fmt.Fprintln(d.out, "  feedback list                  your review history")
	}
	fmt.Fprintln(d.out)
}

func (d *dashboard) whoami(ctx context.Context, refresh bool) error {
	id, err := d.requireLogin()
	if err != nil {
		return err
	}

	if refresh {
		me, err := d.api.Auth.Me(ctx)
		if err != nil {
			return err
		}
		id.Email, id.IsActive, id.EmployeeID = me.Email, me.IsActive, me.EmployeeID
	}

	fmt.Fprintf(d.out, "Username:  %s\n", id.Username)
	fmt.Fprintf(d.out, "Email:     %s\n", id.Email)
	fmt.Fprintf(d.out, "Role:      %s\n", id.Role)
	if id.EmployeeID != nil {
		fmt.Fprintf(d.out, "Employee:  #%d\n", *id.EmployeeID)
	}
	fmt.Fprintf(d.out, "Expires:   %s\n", d.session.ExpiresAt().Local().Format("2006-01-02 15:04"))
	return nil
}

// readPassword disables echo on a terminal; piped input is read as one line.
func readPassword(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var (
	loginUsername string
	loginPassword string
	whoamiRefresh bool
	registerForm  session.Account
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the performance tracker API",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDashboard(cmd)
		if err != nil {
			return err
		}

		password := loginPassword
		if password == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			if password, err = readPassword(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return err
			}
		}

		return d.login(cmd.Context(), loginUsername, password)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDashboard(cmd)
		if err != nil {
			return err
		}
		if err := d.session.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDashboard(cmd)
		if err != nil {
			return err
		}
		return d.whoami(cmd.Context(), whoamiRefresh)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account; the employee role also creates an employee record",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDashboard(cmd)
		if err != nil {
			return err
		}
		id, err := d.session.Register(cmd.Context(), registerForm)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s), you can now log in\n", id.Username, id.Role)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when empty)")
	_ = loginCmd.MarkFlagRequired("username")

	whoamiCmd.Flags().BoolVar(&whoamiRefresh, "refresh", false, "reload the profile from the server")

	f := registerCmd.Flags()
	f.StringVar(&registerForm.Username, "username", "", "account username")
	f.StringVar(&registerForm.Email, "email", "", "account email")
	f.StringVar(&registerForm.Password, "password", "", "account password")
	f.StringVar(&registerForm.Role, "role", internal.RoleEmployee, "admin or employee")
	f.StringVar(&registerForm.Name, "name", "", "employee name")
	f.StringVar(&registerForm.Department, "department", "", "employee department")
	f.IntVar(&registerForm.Age, "age", 0, "employee age")
	f.IntVar(&registerForm.Experience, "experience", 0, "years of experience")
	f.Float64Var(&registerForm.Salary, "salary", 0, "annual salary")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd)
}
