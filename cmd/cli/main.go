package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/user/moovie/internal/client"
	"github.com/user/moovie/internal/model"
)

const usage = `用法: moovie <命令> [参数]

命令:
  signup <用户名> <邮箱> <密码>   注册并登录
  login <邮箱> <密码>             登录
  logout                          退出登录
  search <关键词>                 搜索影片
  list                            查看片单
  add <imdbID>                    添加影片到片单
  rm <imdbID>                     从片单删除
  status <imdbID> <状态>          设置状态（Watching / Watched / "Plan to Watch"）
  note <imdbID> <备注>            设置备注（空字符串清空）
  tags <imdbID> <t1,t2>           设置标签（空字符串清空）
  profile                         查看个人资料
  genres <g1,g2>                  设置喜爱类型

环境变量:
  MOOVIE_API_URL  服务地址（默认 http://localhost:5000）
`

// printNotifier 将通知输出到终端
type printNotifier struct {
	out io.Writer
}

func (n printNotifier) Success(message string) { fmt.Fprintln(n.out, "✓ "+message) }
func (n printNotifier) Error(message string)   { fmt.Fprintln(n.out, "✗ "+message) }

func main() {
	// 加载环境变量
	_ = godotenv.Load()

	timeout := flag.Duration("timeout", 15*time.Second, "请求超时时间")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	baseURL := os.Getenv("MOOVIE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	app := &cli{
		api:    client.NewAPIClient(baseURL, *timeout),
		notify: printNotifier{out: os.Stdout},
		out:    os.Stdout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := app.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

type cli struct {
	api    *client.APIClient
	notify client.Notifier
	out    io.Writer
}

var errUsage = errors.New("参数错误，运行 moovie -h 查看用法")

func (a *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signup":
		if len(args) != 3 {
			return errUsage
		}
		session, err := client.Signup(ctx, a.api, model.SignupInput{Username: args[0], Email: args[1], Password: args[2]}, a.notify)
		if err != nil {
			return err
		}
		return a.saveSession(session)

	case "login":
		if len(args) != 2 {
			return errUsage
		}
		session, err := client.Login(ctx, a.api, args[0], args[1], a.notify)
		if err != nil {
			return err
		}
		return a.saveSession(session)

	case "logout":
		session, err := a.resume(ctx)
		if err != nil {
			return err
		}
		if err := session.Logout(ctx); err != nil {
			return err
		}
		if err := os.Remove(tokenPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		fmt.Fprintln(a.out, "已退出登录")
		return nil

	case "search":
		if len(args) == 0 {
			return errUsage
		}
		results, err := a.api.SearchMovies(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		a.printResults(results)
		return nil

	case "list":
		store, err := a.loadStore(ctx)
		if err != nil {
			return err
		}
		a.printEntries(store.Entries())
		return nil

	case "add":
		if len(args) != 1 {
			return errUsage
		}
		store, err := a.loadStore(ctx)
		if err != nil {
			return err
		}
		if store.IsTracked(args[0]) {
			fmt.Fprintln(a.out, "该影片已在片单中")
			return nil
		}
		detail, err := a.api.MovieDetail(ctx, args[0])
		if err != nil {
			return err
		}
		_, err = store.Add(ctx, model.FromSearchResult(detail.Summary()))
		return err

	case "rm":
		if len(args) != 1 {
			return errUsage
		}
		store, err := a.loadStore(ctx)
		if err != nil {
			return err
		}
		return store.Remove(ctx, args[0])

	case "status":
		if len(args) < 2 {
			return errUsage
		}
		status, ok := model.ParseStatus(strings.Join(args[1:], " "))
		if !ok {
			return fmt.Errorf("未知状态: %s", strings.Join(args[1:], " "))
		}
		return a.update(ctx, args[0], model.EntryPatch{Status: model.Some(status)})

	case "note":
		if len(args) < 1 {
			return errUsage
		}
		return a.update(ctx, args[0], model.EntryPatch{Note: model.Some(strings.Join(args[1:], " "))})

	case "tags":
		if len(args) < 1 {
			return errUsage
		}
		var tags []string
		if len(args) > 1 {
			tags = splitList(args[1])
		}
		return a.update(ctx, args[0], model.EntryPatch{Tags: model.Some(tags)})

	case "profile":
		session, err := a.resume(ctx)
		if err != nil {
			return err
		}
		profile, err := session.API().Profile(ctx)
		if err != nil {
			return err
		}
		a.printProfile(profile)
		return nil

	case "genres":
		session, err := a.resume(ctx)
		if err != nil {
			return err
		}
		var genres []string
		if len(args) > 0 {
			genres = splitList(args[0])
		}
		profile, err := session.API().UpdateGenres(ctx, genres)
		if err != nil {
			return err
		}
		a.printProfile(profile)
		return nil
	}

	return fmt.Errorf("未知命令: %s", cmd)
}

func (a *cli) update(ctx context.Context, movieID string, patch model.EntryPatch) error {
	store, err := a.loadStore(ctx)
	if err != nil {
		return err
	}
	_, err = store.UpdateDetails(ctx, movieID, patch)
	return err
}

// resume 使用本地保存的令牌恢复会话
func (a *cli) resume(ctx context.Context) (*client.Session, error) {
	raw, err := os.ReadFile(tokenPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.New("未登录，请先运行 moovie login")
		}
		return nil, err
	}
	session, err := client.Resume(ctx, a.api, strings.TrimSpace(string(raw)), a.notify)
	if client.IsUnauthorized(err) {
		return nil, errors.New("登录已失效，请重新登录")
	}
	return session, err
}

func (a *cli) loadStore(ctx context.Context) (*client.WatchlistStore, error) {
	session, err := a.resume(ctx)
	if err != nil {
		return nil, err
	}
	store := session.Watchlist()
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("加载片单失败: %w", err)
	}
	return store, nil
}

func (a *cli) saveSession(session *client.Session) error {
	path := tokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(session.Token()), 0o600); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "欢迎，%s\n", session.User().Username)
	return nil
}

func (a *cli) printResults(results []model.MovieSummary) {
	if len(results) == 0 {
		fmt.Fprintln(a.out, "没有找到相关影片")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\t标题\t年份")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.MovieID, r.Title, r.Year)
	}
	_ = w.Flush()
}

func (a *cli) printEntries(entries []model.WatchlistEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "片单为空")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\t标题\t年份\t状态\t标签\t备注")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", e.MovieID, e.Title, e.Year, e.Status, strings.Join(e.Tags, ","), e.Note)
	}
	_ = w.Flush()
}

func (a *cli) printProfile(p *model.UserProfile) {
	fmt.Fprintf(a.out, "用户名: %s\n邮箱: %s\n喜爱类型: %s\n已看: %d\n片单: %d\n",
		p.Username, p.Email, strings.Join(p.FavoriteGenres, ", "), p.Stats.MoviesWatched, p.Stats.WatchlistCount)
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".moovie", "token")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
