package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ourunion/unionhub/internal/client/board"
)

func (a *App) signup(ctx context.Context) {
	loginID, err := getSimpleText(a.reader, "Login id", os.Stdout)
	if err != nil {
		return
	}
	name, err := getSimpleText(a.reader, "Name", os.Stdout)
	if err != nil {
		return
	}
	phone, err := getSimpleText(a.reader, "Phone (optional)", os.Stdout)
	if err != nil {
		return
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return
	}

	_, err = a.board.Signup(ctx, board.SignupInput{
		LoginID:  loginID,
		Password: password,
		Name:     name,
		Phone:    phone,
	})
	if err != nil {
		fmt.Println("Signup failed:", err.Error())
		return
	}
	fmt.Println("Application submitted. An admin must approve it before login.")
}

func (a *App) login(ctx context.Context) {
	loginID, err := getSimpleText(a.reader, "Login id", os.Stdout)
	if err != nil {
		return
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return
	}

	session, err := a.board.Login(ctx, loginID, password)
	if err != nil {
		fmt.Println("Login failed:", err.Error())
		return
	}

	if session.Name != "" {
		fmt.Printf("Welcome, %s!\n", session.Name)
	} else {
		fmt.Println("Welcome!")
	}
}

func (a *App) logout(ctx context.Context) {
	a.board.Logout(ctx)
	fmt.Println("Logged out.")
}
