package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/insight"
	"github.com/trezcool/edumanage/core/session"
	"github.com/trezcool/edumanage/core/stats"
	"github.com/trezcool/edumanage/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	confirmFunc      = promptConfirm     // mockable

	errHelp      = errors.New("help provided")
	errForbidden = errors.New("permission denied")
)

type commandLine struct {
	ctx        context.Context
	out        io.Writer
	translator ut.Translator

	users   *user.Service
	academy *academy.Service
	insight *insight.Service
	stats   stats.Source
	state   *session.State
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL [-role ROLE]          - log in (unknown emails get a temporary account)")
	fmt.Fprintln(cli.out, "  signup -name NAME -email EMAIL ...       - register a new account; the password is prompted")
	fmt.Fprintln(cli.out, "  logout                                   - log out")
	fmt.Fprintln(cli.out, "  whoami                                   - show the logged in user")
	fmt.Fprintln(cli.out, "  theme [dark|light|toggle]                - show or change the theme")
	fmt.Fprintln(cli.out, "  dashboard                                - show the dashboard of the logged in user")
	fmt.Fprintln(cli.out, "  submit -task ID                          - submit a task (student)")
	fmt.Fprintln(cli.out, "  export -out FILE.xlsx                    - export every collection to a spreadsheet (admin)")
	fmt.Fprintln(cli.out, "  deleteuser -id ID [-yes]                 - delete a user (admin)")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := cli.newFlagSet("login")
	loginEmail := loginCmd.String("email", "", "The email to log in with.")
	loginRole := loginCmd.String("role", "", "The role of a temporary account: ADMIN, TRAINER or STUDENT (default STUDENT).")

	signupCmd := cli.newFlagSet("signup")
	signupForm := user.SignupForm{}
	signupCmd.StringVar(&signupForm.Name, "name", "", "Full name.")
	signupCmd.StringVar(&signupForm.Email, "email", "", "Email address.")
	signupCmd.StringVar(&signupForm.Phone, "phone", "", "Phone number.")
	signupRole := signupCmd.String("role", "", "STUDENT or TRAINER (default STUDENT).")
	signupCmd.StringVar(&signupForm.CourseOrExpertise, "course", "", "Course for students, expertise for trainers.")
	signupCmd.StringVar(&signupForm.Experience, "experience", "", "Years of experience (trainers).")
	signupCmd.StringVar(&signupForm.Address, "address", "", "Postal address.")
	signupCmd.BoolVar(&signupForm.TermsAccepted, "terms", false, "Accept the terms and conditions.")

	submitCmd := cli.newFlagSet("submit")
	submitTask := submitCmd.String("task", "", "The id of the task to submit.")

	exportCmd := cli.newFlagSet("export")
	exportOut := exportCmd.String("out", "edumanage.xlsx", "The spreadsheet to write.")

	deleteUserCmd := cli.newFlagSet("deleteuser")
	deleteUserID := deleteUserCmd.String("id", "", "The id of the user to delete.")
	deleteUserYes := deleteUserCmd.Bool("yes", false, "Do not ask for confirmation.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, *loginRole)

	case "signup":
		if err := signupCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *signupRole != "" {
			signupForm.Role = user.Role(strings.ToUpper(*signupRole))
		}
		pwd, err := cli.readPassword("Enter password:")
		if err != nil {
			return err
		}
		confirm, err := cli.readPassword("Confirm password:")
		if err != nil {
			return err
		}
		signupForm.Password, signupForm.ConfirmPassword = pwd, confirm
		return cli.signup(signupForm)

	case "logout":
		return cli.logout()

	case "whoami":
		return cli.whoami()

	case "theme":
		var arg string
		if len(args) > 2 {
			arg = args[2]
		}
		return cli.theme(arg)

	case "dashboard":
		return cli.dashboard()

	case "submit":
		if err := submitCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *submitTask == "" {
			submitCmd.Usage()
			return errHelp
		}
		return cli.submit(academy.TaskID(*submitTask))

	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(*exportOut)

	case "deleteuser":
		if err := deleteUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deleteUserID == "" {
			deleteUserCmd.Usage()
			return errHelp
		}
		return cli.deleteUser(user.ID(*deleteUserID), *deleteUserYes)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) readPassword(prompt string) (string, error) {
	fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// currentUser returns the logged in user, who must have one of roles when any is given.
func (cli *commandLine) currentUser(roles ...user.Role) (user.User, error) {
	usr, ok := cli.state.CurrentUser()
	if !ok {
		return user.User{}, session.ErrNoSession
	}
	if len(roles) == 0 {
		return usr, nil
	}
	for _, r := range roles {
		if usr.Role == r {
			return usr, nil
		}
	}
	return user.User{}, errForbidden
}

// printFieldErrors prints the field errors held by err; it reports false when there are none.
func (cli *commandLine) printFieldErrors(err error) bool {
	fldErrs := core.TranslateErrors(err, cli.translator)
	if len(fldErrs) == 0 {
		return false
	}
	flds := make([]string, 0, len(fldErrs))
	for fld := range fldErrs {
		flds = append(flds, fld)
	}
	sort.Strings(flds)
	for _, fld := range flds {
		fmt.Fprintf(cli.out, "  %s: %s\n", fld, fldErrs[fld])
	}
	return true
}

// promptConfirm asks a yes/no question on the terminal. Without a terminal the answer is no.
func promptConfirm(out io.Writer, question string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
