package cli

import (
	"context"
	"errors"

	"github.com/dustin/go-humanize"
)

// Send posts text to the current conversation, or starts one. Empty text
// prompts for a multi-line message.
func (a *App) Send(ctx context.Context, text string) error {
	if text == "" {
		var err error
		text, err = getMultiline(a.reader, "Message", a.out)
		if err != nil {
			return err
		}
		if text == "" {
			return nil
		}
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	resp, err := a.api.SendMessage(rctx, a.threadID, text)
	if err != nil {
		a.report(err)
		return err
	}

	if resp.EvictedThreadID != "" {
		a.printf("Storage full: your oldest conversation (%s) was removed\n", resp.EvictedThreadID)
		if resp.EvictedThreadID == a.threadID && resp.ThreadID != a.threadID {
			a.printf("That was this conversation, continuing in a new one\n")
		}
	}
	a.threadID = resp.ThreadID

	a.printf("[%s] %s\n", resp.Intent, resp.Response)
	for _, att := range resp.Attachments {
		if att.Filename != "" {
			a.printf("  attachment: %s (%s)\n", att.Filename, att.Type)
		} else {
			a.printf("  attachment: %s\n", att.Type)
		}
	}
	return nil
}

// Threads lists conversations, most recent first, with storage usage.
func (a *App) Threads(ctx context.Context) error {
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	resp, err := a.api.Threads(rctx, 50)
	if err != nil {
		a.report(err)
		return err
	}

	if len(resp.Threads) == 0 {
		a.printf("No conversations yet\n")
	}
	for _, th := range resp.Threads {
		marker := " "
		if th.ID == a.threadID {
			marker = "*"
		}
		a.printf("%s %s  %-40s %s\n", marker, th.ID, th.Title, humanize.Time(th.UpdatedAt))
	}
	a.printf("Storage: %s of %s\n", humanize.IBytes(uint64(max(resp.StorageUsed, 0))), humanize.IBytes(uint64(max(resp.StorageLimit, 0))))
	return nil
}

// Open makes id the current conversation and prints its history.
func (a *App) Open(ctx context.Context, id string) error {
	if id == "" {
		a.printf("Usage: open <thread id>\n")
		return nil
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	resp, err := a.api.Thread(rctx, id)
	if err != nil {
		a.report(err)
		return err
	}
	a.threadID = resp.Thread.ID

	a.printf("== %s ==\n", resp.Thread.Title)
	for _, m := range resp.Messages {
		a.printf("%s: %s\n", m.Role, m.Content)
	}
	return nil
}

// NewThread makes the next message start a new conversation.
func (a *App) NewThread(context.Context) error {
	a.threadID = ""
	a.printf("The next message starts a new conversation\n")
	return nil
}

func (a *App) DeleteThread(ctx context.Context, id string) error {
	if id == "" {
		id = a.threadID
	}
	if id == "" {
		return errors.New("no conversation selected")
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	if err := a.api.DeleteThread(rctx, id); err != nil {
		a.report(err)
		return err
	}
	if id == a.threadID {
		a.threadID = ""
	}
	a.printf("Deleted %s\n", id)
	return nil
}
