package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ourunion/unionhub/internal/client/board"
	core "github.com/ourunion/unionhub/internal/models"
)

// getSimpleText, getMultiline and getPassword are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
)

var boardNames = map[core.BoardType]string{
	core.BoardNotice:       "조합 공지",
	core.BoardNoticeAll:    "전체 공고",
	core.BoardFamilyEvents: "경조사",
	core.BoardFree:         "자유게시판",
	core.BoardResources:    "자료실",
}

func (a *App) listBoards() {
	for _, t := range []core.BoardType{core.BoardNotice, core.BoardNoticeAll,
		core.BoardFamilyEvents, core.BoardFree, core.BoardResources} {
		marker := " "
		if t.AdminOnly() {
			marker = "*"
		}
		fmt.Printf("%s %-14s %s\n", marker, t, boardNames[t])
	}
	fmt.Println("(* admin-only boards)")
}

func (a *App) list(ctx context.Context, args []string) {
	posts, err := a.board.Posts()
	if err != nil {
		fmt.Println("Error:", err.Error())
		return
	}

	var filter core.BoardType
	if len(args) > 0 {
		filter = core.BoardType(args[0])
		if !filter.Valid() {
			fmt.Println("Unknown board:", args[0])
			return
		}
	}

	a.lastPosts = a.lastPosts[:0]
	for _, p := range posts {
		if filter != "" && p.Type != filter {
			continue
		}
		a.lastPosts = append(a.lastPosts, p)
		fmt.Printf("%3d. [%s] %s  (%s, 조회 %d, 댓글 %d)\n",
			len(a.lastPosts), p.Type, p.Title, p.CreatedAt, p.Views, len(p.Comments))
	}
	if len(a.lastPosts) == 0 {
		fmt.Println("No posts.")
	}
}

// pickPost resolves an index argument against the last listing.
func (a *App) pickPost(args []string) (core.Post, bool) {
	if len(args) == 0 {
		fmt.Println("Usage: <command> <n>  (run 'list' first)")
		return core.Post{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.lastPosts) {
		fmt.Println("No such post in the last listing.")
		return core.Post{}, false
	}
	return a.lastPosts[n-1], true
}

func (a *App) read(ctx context.Context, args []string) {
	p, ok := a.pickPost(args)
	if !ok {
		return
	}

	if err := a.board.IncrementViews(ctx, p.ID); err != nil {
		a.logger.Warn(ctx, "view counter not updated", "error", err.Error())
	}

	fmt.Printf("[%s] %s\n%s | 조회 %d\n\n%s\n", p.Type, p.Title, p.CreatedAt, p.Views+1, p.Content)
	for _, att := range p.Attachments {
		fmt.Printf("첨부: %s\n", att.Name)
	}
	for i, c := range p.Comments {
		fmt.Printf("  %d) %s: %s (%s)\n", i+1, c.Author, c.Content, c.CreatedAt)
		for _, r := range c.Replies {
			fmt.Printf("     └ %s: %s (%s)\n", r.Author, r.Content, r.CreatedAt)
		}
	}
}

func (a *App) write(ctx context.Context) {
	boardArg, err := getSimpleText(a.reader, "Board (notice, notice_all, family_events, free, resources)", os.Stdout)
	if err != nil {
		return
	}
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return
	}
	content, err := getMultiline(a.reader, "Content", os.Stdout)
	if err != nil {
		return
	}

	author := "익명"
	if s := a.board.Session(); s != nil {
		author = s.Name
	}

	in := board.PostInput{
		Type:    core.BoardType(boardArg),
		Title:   title,
		Content: content,
		Author:  author,
	}

	// guests protect their posts with a password
	if !a.isLoggedIn() {
		pw, err := getPassword(os.Stdout)
		if err != nil {
			return
		}
		in.Password = pw
	}

	if _, err := a.board.CreatePost(ctx, in); err != nil {
		fmt.Println("Error:", err.Error())
		return
	}
	fmt.Println("Posted.")
}

func (a *App) comment(ctx context.Context, args []string) {
	p, ok := a.pickPost(args)
	if !ok {
		return
	}
	content, err := getSimpleText(a.reader, "Comment", os.Stdout)
	if err != nil {
		return
	}

	author := "익명"
	if s := a.board.Session(); s != nil {
		author = s.Name
	}

	if err := a.board.AddComment(ctx, p.ID, author, content); err != nil {
		fmt.Println("Error:", err.Error())
		return
	}
	fmt.Println("Comment added.")
}

func (a *App) reply(ctx context.Context, args []string) {
	p, ok := a.pickPost(args)
	if !ok {
		return
	}
	if len(args) < 2 {
		fmt.Println("Usage: reply <post n> <comment n>")
		return
	}
	m, err := strconv.Atoi(args[1])
	if err != nil || m < 1 || m > len(p.Comments) {
		fmt.Println("No such comment.")
		return
	}

	content, err := getSimpleText(a.reader, "Reply", os.Stdout)
	if err != nil {
		return
	}

	author := "익명"
	if s := a.board.Session(); s != nil {
		author = s.Name
	}

	if err := a.board.AddReply(ctx, p.ID, p.Comments[m-1].ID, author, content); err != nil {
		fmt.Println("Error:", err.Error())
		return
	}
	fmt.Println("Reply added.")
}

func (a *App) attach(ctx context.Context, args []string) {
	p, ok := a.pickPost(args)
	if !ok {
		return
	}
	if len(args) < 2 {
		fmt.Println("Usage: attach <n> <file>")
		return
	}

	file, err := os.Open(args[1])
	if err != nil {
		fmt.Println("Error:", err.Error())
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		fmt.Println("Error:", err.Error())
		return
	}

	password := ""
	if p.Password != "" && !a.board.IsAdmin() {
		pw, err := getPassword(os.Stdout)
		if err != nil {
			return
		}
		password = pw
	}

	att, err := a.board.AttachFile(ctx, p.ID, password, filepath.Base(args[1]), file, info.Size())
	if err != nil {
		fmt.Println("Error:", err.Error())
		return
	}
	fmt.Printf("Attached %s (%d bytes).\n", att.Name, info.Size())
}

func (a *App) delete(ctx context.Context, args []string) {
	p, ok := a.pickPost(args)
	if !ok {
		return
	}

	password := ""
	if p.Password != "" && !a.board.IsAdmin() {
		pw, err := getPassword(os.Stdout)
		if err != nil {
			return
		}
		password = pw
	}

	if err := a.board.DeletePost(ctx, p.ID, password); err != nil {
		fmt.Println("Error:", err.Error())
		return
	}
	fmt.Println("Moved to trash.")
}
