package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

func (a *App) status() string {
	s := a.board.Session()
	if s == nil {
		return "(guest)"
	}
	if s.IsAdmin {
		return fmt.Sprintf("(%s, admin)", s.LoginID)
	}
	return fmt.Sprintf("(%s)", s.LoginID)
}

func (a *App) isLoggedIn() bool {
	return a.board.Session() != nil
}

// runREPL reads commands from scanner and dispatches until EOF or exit.
// Command handlers report their own errors; the loop stays up regardless.
func (a *App) runREPL(ctx context.Context, scanner *bufio.Scanner) {
	fmt.Println("UnionHub console (type 'help' for commands)")

	for {
		fmt.Printf("union %s> ", a.status())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			a.help()

		case "boards":
			a.listBoards()

		case "l", "list":
			a.list(ctx, args)

		case "read":
			a.read(ctx, args)

		case "write":
			a.write(ctx)

		case "comment":
			a.comment(ctx, args)

		case "reply":
			a.reply(ctx, args)

		case "attach":
			a.attach(ctx, args)

		case "delete":
			a.delete(ctx, args)

		case "signup":
			a.signup(ctx)

		case "login":
			a.login(ctx)

		case "logout":
			a.logout(ctx)

		case "members":
			a.members()

		case "approve":
			a.approve(ctx, args)

		case "rmmember":
			a.removeMember(ctx, args)

		case "trash":
			a.trash()

		case "restore":
			a.restore(ctx, args)

		case "purge":
			a.purge(ctx, args)

		case "settings":
			a.showSettings()

		case "editsettings":
			a.editSettings(ctx)

		case "resync":
			a.controller.Resync(ctx)
			fmt.Println("Done.")

		case "exit", "quit":
			fmt.Println("Bye!")
			return

		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func (a *App) help() {
	fmt.Println("Reading:  boards, (l)ist [board], read <n>, settings, resync")
	fmt.Println("Writing:  write, comment <n>, reply <n> <m>, attach <n> <file>, delete <n>")
	if !a.isLoggedIn() {
		fmt.Println("Account:  signup, login, exit")
		return
	}
	fmt.Println("Account:  logout, exit")
	if a.board.IsAdmin() {
		fmt.Println("Admin:    members, approve <n>, rmmember <n>, trash, restore <n>, purge <n>, editsettings")
	}
}
