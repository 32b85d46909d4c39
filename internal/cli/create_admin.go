package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"storefront/internal/domain/model"
	infraRepo "storefront/internal/infra/repository"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// 対話入力が空のときの値
const (
	promptDefaultUsername = "admin"
	promptDefaultPassword = "admin123"
)

type CreateAdminOptions struct {
	*RootOptions
	Username string
	Password string
}

// NewCreateAdminCommand は管理者を1人作る。フラグが無ければ対話で聞く
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateAdminOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:          "create-admin",
		Short:        "Create an admin user",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := adminCredentials(cmd.InOrStdin(), cmd.OutOrStdout(), opts.Username, opts.Password)
			if err != nil {
				return err
			}

			a, err := bootstrap(opts.RootOptions)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.migrateSchema(); err != nil {
				return err
			}

			uc := auth.NewCreateAdminUsecase(infraRepo.NewUserGormRepository(a.db), auth.NewBcryptPasswordHasher(bcryptCost))
			return createAdmin(cmd.Context(), cmd.OutOrStdout(), uc, username, password)
		},
	}

	cmd.Flags().StringVar(&opts.Username, "username", "", "admin username (prompted when empty)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "admin password (prompted when empty)")
	return cmd
}

type adminCreator interface {
	Execute(ctx context.Context, username, password string) (*model.User, error)
}

// 既存ユーザーはエラーにせずメッセージだけ出す
func createAdmin(ctx context.Context, out io.Writer, uc adminCreator, username, password string) error {
	_, err := uc.Execute(ctx, username, password)
	if errors.Is(err, auth.ErrUserAlreadyExists) {
		fmt.Fprintln(out, "User already exists")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Admin created: %s\n", username)
	return nil
}

// adminCredentials はフラグが空の項目だけ聞く。入力も空なら既定値
func adminCredentials(in io.Reader, out io.Writer, username, password string) (string, string, error) {
	r := bufio.NewReader(in)

	ask := func(prompt, def string) (string, error) {
		fmt.Fprint(out, prompt)
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if v := strings.TrimSpace(line); v != "" {
			return v, nil
		}
		return def, nil
	}

	//端末ならパスワードは表示しない
	askSecret := ask
	if fd, ok := terminalFd(in); ok {
		askSecret = func(prompt, def string) (string, error) {
			fmt.Fprint(out, prompt)
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			if err != nil {
				return "", err
			}
			if v := strings.TrimSpace(string(b)); v != "" {
				return v, nil
			}
			return def, nil
		}
	}

	var err error
	if username == "" {
		if username, err = ask("Admin username: ", promptDefaultUsername); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = askSecret("Password: ", promptDefaultPassword); err != nil {
			return "", "", err
		}
	}
	return username, password, nil
}

// パイプやファイルはfalse
func terminalFd(in io.Reader) (int, bool) {
	f, ok := in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	return fd, term.IsTerminal(fd)
}
