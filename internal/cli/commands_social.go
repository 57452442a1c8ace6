package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mentra-app/mentra-cli/internal/guard"
	"github.com/mentra-app/mentra-cli/internal/messaging"
	"github.com/mentra-app/mentra-cli/internal/model"
	"github.com/mentra-app/mentra-cli/internal/notify"
)

func (a *App) cmdFeed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	fs.SetOutput(a.out)
	kind := fs.String("type", "all", "all, posts or news")
	limit := fs.Int("limit", 20, "maximum entries")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.gate(guard.RouteHome); err != nil {
		return report(a.out, err)
	}

	items, err := a.client.Feed(ctx, *kind, *limit)
	if err != nil {
		return report(a.out, err)
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "akış boş")
		return nil
	}
	for _, item := range items {
		switch item.Type {
		case model.FeedItemNews:
			fmt.Fprintf(a.out, "[haber] %s\n    %s\n", item.Title, firstLine(item.Body))
		default:
			fmt.Fprintf(a.out, "[%s] %s\n", item.AuthorName, firstLine(item.Content))
		}
		fmt.Fprintf(a.out, "    %d beğeni, %d yorum  (%s)\n", item.LikesCount, item.CommentsCount, item.ID)
	}
	return nil
}

func (a *App) cmdNotifications(ctx context.Context, args []string) error {
	if err := a.gate(guard.RouteHome); err != nil {
		return report(a.out, err)
	}

	poller := notify.New(a.client, a.logger)
	poller.Start(ctx)
	defer poller.Stop()

	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "list":
		return a.printNotifications(poller)
	case "read":
		if len(args) < 2 {
			return fmt.Errorf("usage: mentra notifications read <id>")
		}
		return a.readNotification(ctx, poller, args[1])
	case "read-all":
		if err := poller.MarkAllRead(ctx); err != nil {
			return report(a.out, err)
		}
		fmt.Fprintln(a.out, "tümü okundu")
		return nil
	default:
		return fmt.Errorf("unknown notifications subcommand %q", sub)
	}
}

func (a *App) printNotifications(poller *notify.Poller) error {
	list := poller.Notifications()
	if badge := poller.BadgeText(); badge != "" {
		fmt.Fprintf(a.out, "okunmamış: %s\n", badge)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "bildirim yok")
		return nil
	}
	for _, n := range list {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %s %s", marker, n.ID, n.ActorName, describe(n))
		if n.Content != nil && *n.Content != "" {
			fmt.Fprintf(a.out, ": %q", *n.Content)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

func describe(n model.Notification) string {
	switch n.Type {
	case model.NotifyLike:
		return "gönderini beğendi"
	case model.NotifyComment:
		return "yorum yaptı"
	case model.NotifyFollow:
		return "seni takip etti"
	default:
		return n.Type
	}
}

func (a *App) readNotification(ctx context.Context, poller *notify.Poller, id string) error {
	var target model.Notification
	found := false
	for _, n := range poller.Notifications() {
		if n.ID == id {
			target, found = n, true
			break
		}
	}
	if !found {
		return fmt.Errorf("notification %q not found", id)
	}

	nav, err := poller.MarkRead(ctx, target)
	if err != nil {
		return report(a.out, err)
	}
	switch nav.Kind {
	case "post":
		fmt.Fprintf(a.out, "okundu → gönderi %s\n", nav.ID)
	case "profile":
		fmt.Fprintf(a.out, "okundu → profil @%s\n", nav.ID)
	default:
		fmt.Fprintln(a.out, "okundu → akış")
	}
	return nil
}

func (a *App) cmdMessages(ctx context.Context, args []string) error {
	if err := a.gate(guard.RouteMessages); err != nil {
		return report(a.out, err)
	}

	ms := messaging.NewSession(a.client, a.logger)
	if err := ms.LoadThreads(ctx); err != nil {
		return report(a.out, err)
	}

	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "list":
		return a.printThreads(ms)
	case "open":
		if len(args) < 2 {
			return fmt.Errorf("usage: mentra messages open <thread-id>")
		}
		return a.openThread(ctx, ms, args[1])
	default:
		return fmt.Errorf("unknown messages subcommand %q", sub)
	}
}

func (a *App) printThreads(ms *messaging.Session) error {
	threads := ms.Threads()
	if len(threads) == 0 {
		fmt.Fprintln(a.out, "konuşma yok")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, t := range threads {
		name := "(bilinmiyor)"
		if t.OtherUser != nil {
			name = t.OtherUser.FullName
		}
		preview := ""
		if t.LastMessage != nil {
			preview = firstLine(t.LastMessage.Body)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, name, preview)
	}
	return w.Flush()
}

func (a *App) openThread(ctx context.Context, ms *messaging.Session, threadID string) error {
	selected, err := ms.Select(ctx, threadID)
	if err != nil {
		return report(a.out, err)
	}
	if !selected {
		fmt.Fprintln(a.out, "konuşma bulunamadı")
		return nil
	}
	for _, m := range ms.Messages() {
		fmt.Fprintf(a.out, "[%s] %s: %s\n", m.Created, m.SenderName, m.Body)
	}
	return nil
}

func (a *App) cmdSend(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: mentra send <thread-id> <message...>")
	}
	if err := a.gate(guard.RouteMessages); err != nil {
		return report(a.out, err)
	}

	threadID, body := args[0], strings.Join(args[1:], " ")

	ms := messaging.NewSession(a.client, a.logger)
	if err := ms.LoadThreads(ctx); err != nil {
		return report(a.out, err)
	}
	selected, err := ms.Select(ctx, threadID)
	if err != nil {
		return report(a.out, err)
	}
	if !selected {
		return fmt.Errorf("thread %q not found", threadID)
	}

	msg, err := ms.Send(ctx, body)
	if err != nil {
		return report(a.out, err)
	}
	fmt.Fprintf(a.out, "gönderildi (%s)\n", msg.ID)
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 80 {
		s = s[:77] + "..."
	}
	return s
}
