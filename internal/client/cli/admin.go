package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	core "github.com/ourunion/unionhub/internal/models"
)

func (a *App) members() {
	members, err := a.board.Members()
	if err != nil {
		fmt.Println("Error:", err.Error())
		return
	}

	a.lastMembers = members
	for i, m := range members {
		state := "대기"
		if m.Approved {
			state = "승인"
		}
		fmt.Printf("%3d. %-12s %-10s %s  [%s]\n", i+1, m.LoginID, m.Name, m.SignupDate, state)
	}
	if len(members) == 0 {
		fmt.Println("No members.")
	}
}

func (a *App) pickMember(args []string) (core.Member, bool) {
	if len(args) == 0 {
		fmt.Println("Usage: <command> <n>  (run 'members' first)")
		return core.Member{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.lastMembers) {
		fmt.Println("No such member in the last listing.")
		return core.Member{}, false
	}
	return a.lastMembers[n-1], true
}

func (a *App) approve(ctx context.Context, args []string) {
	m, ok := a.pickMember(args)
	if !ok {
		return
	}
	if err := a.board.ApproveMember(ctx, m.ID); err != nil {
		fmt.Println("Error:", err.Error())
		return
	}
	fmt.Printf("%s approved.\n", m.Name)
}

func (a *App) removeMember(ctx context.Context, args []string) {
	m, ok := a.pickMember(args)
	if !ok {
		return
	}
	if err := a.board.RemoveMember(ctx, m.ID); err != nil {
		fmt.Println("Error:", err.Error())
		return
	}
	fmt.Printf("%s removed.\n", m.Name)
}

func (a *App) trash() {
	deleted, err := a.board.DeletedPosts()
	if err != nil {
		fmt.Println("Error:", err.Error())
		return
	}

	a.lastTrash = deleted
	for i, p := range deleted {
		fmt.Printf("%3d. [%s] %s  (%s)\n", i+1, p.Type, p.Title, p.CreatedAt)
	}
	if len(deleted) == 0 {
		fmt.Println("Trash is empty.")
	}
}

func (a *App) pickTrash(args []string) (core.Post, bool) {
	if len(args) == 0 {
		fmt.Println("Usage: <command> <n>  (run 'trash' first)")
		return core.Post{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.lastTrash) {
		fmt.Println("No such post in the trash listing.")
		return core.Post{}, false
	}
	return a.lastTrash[n-1], true
}

func (a *App) restore(ctx context.Context, args []string) {
	p, ok := a.pickTrash(args)
	if !ok {
		return
	}
	if err := a.board.RestorePost(ctx, p.ID); err != nil {
		fmt.Println("Error:", err.Error())
		return
	}
	fmt.Println("Restored.")
}

func (a *App) purge(ctx context.Context, args []string) {
	p, ok := a.pickTrash(args)
	if !ok {
		return
	}
	if err := a.board.PurgePost(ctx, p.ID); err != nil {
		fmt.Println("Error:", err.Error())
		return
	}
	fmt.Println("Purged.")
}

func (a *App) showSettings() {
	s, err := a.board.Settings()
	if err != nil {
		fmt.Println("Error:", err.Error())
		return
	}

	fmt.Println(s.SiteName)
	fmt.Printf("  %s\n  %s\n", s.HeroTitle, s.HeroSubtitle)
	for _, o := range s.Offices {
		fmt.Printf("  사무실: %s (%s)\n", o.Name, o.Address)
	}
	for _, h := range s.History {
		fmt.Printf("  %s  %s\n", h.Year, h.Event)
	}
}

func (a *App) editSettings(ctx context.Context) {
	s, err := a.board.Settings()
	if err != nil {
		fmt.Println("Error:", err.Error())
		return
	}

	// empty input keeps the current value
	if v, err := getSimpleText(a.reader, fmt.Sprintf("Site name [%s]", s.SiteName), os.Stdout); err == nil && v != "" {
		s.SiteName = v
	}
	if v, err := getSimpleText(a.reader, fmt.Sprintf("Hero title [%s]", s.HeroTitle), os.Stdout); err == nil && v != "" {
		s.HeroTitle = v
	}
	if v, err := getSimpleText(a.reader, fmt.Sprintf("Hero subtitle [%s]", s.HeroSubtitle), os.Stdout); err == nil && v != "" {
		s.HeroSubtitle = v
	}

	if err := a.board.UpdateSettings(ctx, s); err != nil {
		fmt.Println("Error:", err.Error())
		return
	}
	fmt.Println("Settings saved.")
}
