package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/iudanet/modify/internal/client/config"
	"github.com/iudanet/modify/internal/client/iocli"
	pkgapi "github.com/iudanet/modify/pkg/api"
)

// annotation: команда не требует загрузки профиля перед запуском
const annotationNoBootstrap = "modify/no-bootstrap"

// annotation: команда работает без хранилища и API
const annotationStandalone = "modify/standalone"

// BuildInfo информация о сборке (задается через -ldflags)
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// NewRootCommand строит дерево команд. Зависимости создаются в PersistentPreRunE
// после разбора флагов и закрываются после выполнения команды.
func NewRootCommand(info BuildInfo, stdio iocli.IO) *cobra.Command {
	var (
		app     *Cli
		closeFn func() error
	)

	root := &cobra.Command{
		Use:           "modify",
		Short:         "Modify client: account, session and hardware profile management",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if standalone(cmd) {
				return nil
			}

			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := NewLogger(cfg.Logging, os.Stderr)
			if err != nil {
				return err
			}

			app, closeFn, err = Setup(cmd.Context(), cfg, stdio, logger)
			if err != nil {
				return err
			}

			if cmd.Annotations[annotationNoBootstrap] != "true" {
				app.session.Bootstrap(cmd.Context())
			}
			return nil
		},
	}
	config.InitFlags(root.PersistentFlags())

	// хранилище закрывается и при ошибке команды
	run := func(fn func(ctx context.Context, c *Cli, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if closeFn == nil {
					return
				}
				if cerr := closeFn(); cerr != nil && err == nil {
					err = cerr
				}
				closeFn = nil
			}()
			return fn(cmd.Context(), app, args)
		}
	}
	noBootstrap := map[string]string{annotationNoBootstrap: "true"}

	var email string

	register := &cobra.Command{
		Use:         "register",
		Short:       "Create an account and sign in",
		Args:        cobra.NoArgs,
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runRegister(ctx, email)
		}),
	}
	register.Flags().StringVar(&email, "email", "", "Account email")

	login := &cobra.Command{
		Use:         "login",
		Short:       "Sign in with email and password (password from " + PasswordEnv + " or prompt)",
		Args:        cobra.NoArgs,
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runLogin(ctx, email)
		}),
	}
	login.Flags().StringVar(&email, "email", "", "Account email")

	logout := &cobra.Command{
		Use:         "logout",
		Short:       "Sign out and delete the local session",
		Args:        cobra.NoArgs,
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runLogout(ctx)
		}),
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show session status",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runStatus(ctx)
		}),
	}

	refresh := &cobra.Command{
		Use:         "refresh",
		Short:       "Refresh the access token using the stored refresh cookie",
		Args:        cobra.NoArgs,
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runRefresh(ctx)
		}),
	}

	root.AddCommand(register, login, logout, status, refresh,
		newProfileCommand(run, noBootstrap),
		newHardwareCommand(run, noBootstrap),
		newOAuthCommand(run, noBootstrap),
		newAccountsCommand(run, noBootstrap),
		newVersionCommand(info),
	)
	root.AddCommand(newPasswordCommands(run, noBootstrap)...)

	return root
}

func standalone(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationStandalone] == "true" || cmd.Name() == "help" {
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "completion"
}

type runner func(fn func(ctx context.Context, c *Cli, args []string) error) func(*cobra.Command, []string) error

func newProfileCommand(run runner, noBootstrap map[string]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
	}

	show := &cobra.Command{
		Use:         "show",
		Short:       "Show the current profile",
		Args:        cobra.NoArgs,
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runProfileShow(ctx)
		}),
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Update display name and/or avatar (prompts when no flags are given)",
		Args:  cobra.NoArgs,
	}
	name := update.Flags().String("name", "", "Display name")
	avatar := update.Flags().String("avatar", "", "Avatar URL")
	update.RunE = run(func(ctx context.Context, c *Cli, _ []string) error {
		var req pkgapi.UpdateProfileRequest
		if update.Flags().Changed("name") {
			req.DisplayName = name
		}
		if update.Flags().Changed("avatar") {
			req.AvatarURL = avatar
		}
		return c.runProfileUpdate(ctx, req)
	})

	cmd.AddCommand(show, update)
	return cmd
}

func newHardwareCommand(run runner, noBootstrap map[string]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hardware",
		Short: "Show or save your hardware profile",
	}

	show := &cobra.Command{
		Use:         "show",
		Short:       "Show the hardware saved on the server",
		Args:        cobra.NoArgs,
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runHardwareShow(ctx)
		}),
	}

	save := &cobra.Command{
		Use:   "save",
		Short: "Save hardware fields (only the given flags are sent)",
		Args:  cobra.NoArgs,
	}
	f := save.Flags()
	gpu := f.String("gpu", "", "GPU model")
	vram := f.Int("vram", 0, "GPU memory, MB")
	cpu := f.String("cpu", "", "CPU model")
	cores := f.Int("cores", 0, "CPU cores")
	speed := f.Float64("cpu-speed", 0, "CPU speed, GHz")
	ram := f.Int("ram", 0, "System memory, GB")
	rawFile := f.String("raw-file", "", "File with raw hardware specs text ('-' for stdin)")
	save.RunE = run(func(ctx context.Context, c *Cli, _ []string) error {
		req, err := hardwareRequestFromFlags(f, gpu, cpu, rawFile, vram, cores, ram, speed)
		if err != nil {
			return err
		}
		return c.runHardwareSave(ctx, req)
	})

	cmd.AddCommand(show, save)
	return cmd
}

func hardwareRequestFromFlags(f *pflag.FlagSet, gpu, cpu, rawFile *string, vram, cores, ram *int, speed *float64) (pkgapi.HardwareUpdateRequest, error) {
	var req pkgapi.HardwareUpdateRequest
	if f.Changed("gpu") {
		req.GPUModel = gpu
	}
	if f.Changed("cpu") {
		req.CPUModel = cpu
	}
	if f.Changed("vram") {
		req.VRAMMB = vram
	}
	if f.Changed("cores") {
		req.CPUCores = cores
	}
	if f.Changed("ram") {
		req.RAMGB = ram
	}
	if f.Changed("cpu-speed") {
		req.CPUSpeedGHz = speed
	}
	if f.Changed("raw-file") {
		raw, err := readRawSpecs(*rawFile)
		if err != nil {
			return req, err
		}
		req.HardwareRawText = &raw
	}
	return req, nil
}

func readRawSpecs(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read hardware specs: %w", err)
	}
	return string(data), nil
}

func newOAuthCommand(run runner, noBootstrap map[string]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oauth",
		Short: "Sign in with a third-party provider",
	}

	providers := &cobra.Command{
		Use:         "providers",
		Short:       "List OAuth providers configured on the server",
		Args:        cobra.NoArgs,
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runOAuthProviders(ctx)
		}),
	}

	login := &cobra.Command{
		Use:         "login <provider>",
		Short:       "Open the provider's authorization page",
		Args:        cobra.ExactArgs(1),
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, args []string) error {
			return c.runOAuthLogin(ctx, args[0])
		}),
	}

	complete := &cobra.Command{
		Use:         "complete [callback-url]",
		Short:       "Finish OAuth login with the callback URL (or bare token)",
		Args:        cobra.MaximumNArgs(1),
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, args []string) error {
			var callback string
			if len(args) > 0 {
				callback = args[0]
			}
			return c.runOAuthComplete(ctx, callback)
		}),
	}

	cmd.AddCommand(providers, login, complete)
	return cmd
}

func newAccountsCommand(run runner, noBootstrap map[string]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage connected third-party accounts",
	}

	list := &cobra.Command{
		Use:         "list",
		Short:       "List connected accounts",
		Args:        cobra.NoArgs,
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runAccountsList(ctx)
		}),
	}

	disconnect := &cobra.Command{
		Use:         "disconnect <provider>",
		Short:       "Disconnect a third-party account",
		Args:        cobra.ExactArgs(1),
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, args []string) error {
			return c.runAccountsDisconnect(ctx, args[0])
		}),
	}

	cmd.AddCommand(list, disconnect)
	return cmd
}

func newPasswordCommands(run runner, noBootstrap map[string]string) []*cobra.Command {
	verify := &cobra.Command{
		Use:   "verify-email <token>",
		Short: "Confirm your email with the token from the verification letter",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, c *Cli, args []string) error {
			return c.runVerifyEmail(ctx, args[0])
		}),
	}

	resend := &cobra.Command{
		Use:   "resend-verification",
		Short: "Send the verification email again",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runResendVerification(ctx)
		}),
	}

	forgot := &cobra.Command{
		Use:         "forgot-password [email]",
		Short:       "Request a password reset email",
		Args:        cobra.MaximumNArgs(1),
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, args []string) error {
			var email string
			if len(args) > 0 {
				email = args[0]
			}
			return c.runForgotPassword(ctx, email)
		}),
	}

	reset := &cobra.Command{
		Use:         "reset-password <token>",
		Short:       "Set a new password with the token from the reset email",
		Args:        cobra.ExactArgs(1),
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, args []string) error {
			return c.runResetPassword(ctx, args[0])
		}),
	}

	change := &cobra.Command{
		Use:         "change-password",
		Short:       "Change the password of the current account",
		Args:        cobra.NoArgs,
		Annotations: noBootstrap,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runChangePassword(ctx)
		}),
	}

	return []*cobra.Command{verify, resend, forgot, reset, change}
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationStandalone: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Modify Client")
			_, _ = fmt.Fprintf(out, "Version:    %s\n", info.Version)
			_, _ = fmt.Fprintf(out, "Build date: %s\n", info.BuildDate)
			_, _ = fmt.Fprintf(out, "Git commit: %s\n", info.GitCommit)
			return nil
		},
	}
}
