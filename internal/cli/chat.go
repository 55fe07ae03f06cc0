package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/kotoba/internal/logging"
	"github.com/aretw0/kotoba/internal/presentation/tui"
	"github.com/aretw0/kotoba/pkg/chat"
	"github.com/aretw0/kotoba/pkg/ports"
)

// ChatOptions configures an interactive chat session.
type ChatOptions struct {
	In         io.Reader
	Out        io.Writer
	Translator ports.Translator
	Speaker    ports.Speaker
	Clipboard  ports.Clipboard
	PoolSize   int
	Logger     *slog.Logger
	// Rich enables the banner and glamour rendering.
	Rich    bool
	Width   int
	Version string
}

const chatHelp = `命令：
  <中文句子>     翻译
  /speak [N]    朗读第 N 条译文（默认最新）
  /copy [N]     复制第 N 条译文（默认最新）
  /help         显示帮助
  /quit         退出`

// RunChat reads sentences from opts.In until EOF, /quit or ctx cancellation.
// Translations run in the background; replies are printed as they arrive.
func RunChat(ctx context.Context, opts ChatOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	render := tui.PlainRenderer
	if opts.Rich {
		render = tui.NewRenderer(opts.Width)
		tui.PrintBanner(opts.Out, opts.Version)
	}
	printSystemMessage(opts.Out, "输入中文句子开始翻译，/help 查看命令。")

	view := tui.NewChatView(opts.Out, render)
	convOpts := []chat.Option{
		chat.WithNotifier(tui.NewNotifier(opts.Out)),
		chat.WithLogger(logger),
	}
	if opts.Speaker != nil {
		convOpts = append(convOpts, chat.WithSpeaker(opts.Speaker))
	}
	if opts.Clipboard != nil {
		convOpts = append(convOpts, chat.WithClipboard(opts.Clipboard))
	}
	if opts.PoolSize > 0 {
		convOpts = append(convOpts, chat.WithPoolSize(opts.PoolSize))
	}

	conv, err := chat.NewConversation(opts.Translator, view, convOpts...)
	if err != nil {
		return err
	}
	defer conv.Close()

	lines := readLines(ctx, opts.In)
	s := &chatSession{conv: conv, view: view, out: opts.Out}

	for {
		select {
		case <-ctx.Done():
			return handleExecutionError(ctx.Err())
		case line, ok := <-lines:
			if !ok {
				conv.Wait()
				return nil
			}
			if quit := s.handle(ctx, line); quit {
				conv.Wait()
				printSystemMessage(opts.Out, "再见！")
				return nil
			}
		}
	}
}

// readLines delivers input lines until EOF or ctx is done.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

type chatSession struct {
	conv *chat.Conversation
	view *tui.ChatView
	out  io.Writer
}

// handle processes one input line and reports whether the user asked to quit.
func (s *chatSession) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		switch line {
		case "exit", "quit":
			return true
		}
		if _, _, err := s.conv.Submit(ctx, line); err != nil {
			printSystemMessage(s.out, "%v", err)
		}
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(s.out, chatHelp)
	case "/speak":
		if turn, ok := s.turn(arg); ok {
			turn.Speak.Press(ctx)
		}
	case "/copy":
		if turn, ok := s.turn(arg); ok {
			_ = turn.Copy.Press(ctx)
		}
	default:
		printSystemMessage(s.out, "未知命令 %s，输入 /help 查看帮助。", cmd)
	}
	return false
}

// turn finds the resolved turn named by arg, or the latest one when arg is
// empty. It waits for in-flight translations before giving up.
func (s *chatSession) turn(arg string) (chat.BotTurn, bool) {
	lookup := s.view.Latest
	if arg = strings.TrimSpace(arg); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			printSystemMessage(s.out, "无效的编号 %q", arg)
			return chat.BotTurn{}, false
		}
		lookup = func() (chat.BotTurn, bool) { return s.view.Turn(n) }
	}

	if turn, ok := lookup(); ok {
		return turn, true
	}
	s.conv.Wait()
	if turn, ok := lookup(); ok {
		return turn, true
	}
	printSystemMessage(s.out, "没有可用的译文。")
	return chat.BotTurn{}, false
}
