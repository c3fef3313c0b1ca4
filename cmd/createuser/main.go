// Package main は開発・運用向けのユーザー登録ツールです。
//
// 使い方:
//
//	createuser [-apply] [-redis-url URL] <username> [password]
//
// password を省略すると端末から入力を求めます（エコーなし）。
// 既定では Redis に投入する key/value と redis-cli コマンドを表示するだけで、
// -apply を付けると REDIS_URL の Redis に直接書き込みます。
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/term"

	"github.com/yourusername/kv-session-auth/internal/auth"
	"github.com/yourusername/kv-session-auth/internal/config"
	"github.com/yourusername/kv-session-auth/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, readPasswordFromTerminal); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type passwordReader func() (string, error)

func run(args []string, out io.Writer, readPassword passwordReader) error {
	fs := flag.NewFlagSet("createuser", flag.ContinueOnError)
	fs.SetOutput(out)
	apply := fs.Bool("apply", false, "write the record to Redis instead of printing commands only")
	redisURL := fs.String("redis-url", "", "Redis URL (default: REDIS_URL from the environment)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: createuser [-apply] [-redis-url URL] <username> [password]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return errors.New("username is required")
	}
	username := fs.Arg(0)

	password := fs.Arg(1)
	if fs.NArg() == 1 {
		var err error
		if password, err = readPassword(); err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	key, credential, err := buildUserRecord(username, password, time.Now().UTC())
	if err != nil {
		return err
	}
	value, err := json.Marshal(credential)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nuser: %s\n", username)
	fmt.Fprintf(out, "key:   %s\n", key)
	fmt.Fprintf(out, "value: %s\n", value)

	if !*apply {
		fmt.Fprintf(out, "\nload it with:\n\n  redis-cli SET %s %s\n", shellQuote(key), shellQuote(string(value)))
		return nil
	}

	url := *redisURL
	if url == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		url = cfg.RedisURL
	}
	return applyUser(context.Background(), url, username, credential, out)
}

// buildUserRecord は users:<username> のキーと保存する認証情報を作ります。
// ダイジェストはログイン時の検証と同じ auth.HashPassword で計算します。
func buildUserRecord(username, password string, now time.Time) (string, storage.UserCredential, error) {
	if err := auth.ValidateUsername(username); err != nil {
		return "", storage.UserCredential{}, fmt.Errorf("invalid username: must be 1-%d characters", auth.UsernameMaxLength)
	}
	if password == "" {
		return "", storage.UserCredential{}, errors.New("password must not be empty")
	}
	return storage.UserKey(username), storage.UserCredential{
		PasswordHash: auth.HashPassword(password),
		CreatedAt:    now.UTC().Format(storage.CreatedAtLayout),
	}, nil
}

func applyUser(ctx context.Context, url, username string, credential storage.UserCredential, out io.Writer) error {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return err
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := storage.NewStore(rdb).PutUser(ctx, username, credential); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nstored %s\n", storage.UserKey(username))
	return nil
}

func readPasswordFromTerminal() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; pass the password as an argument")
	}
	fmt.Fprint(os.Stderr, "password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	fmt.Fprint(os.Stderr, "confirm:  ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
