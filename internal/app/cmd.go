package app

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownCommand はサポート外のサブコマンドが指定された場合のエラー。
var ErrUnknownCommand = errors.New("unknown command")

// Command はtoakuaiのサブコマンド。
type Command string

const (
	// CommandServe は辞書APIサーバーを起動する。引数なしの場合もこれになる。
	CommandServe Command = "serve"
	// CommandMigrate は辞書スキーマのマイグレーションを適用して終了する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は起動中のサーバーの/healthを叩く。distrolessイメージのHEALTHCHECK用。
	CommandHealthcheck Command = "healthcheck"
)

var commands = []Command{CommandServe, CommandMigrate, CommandHealthcheck}

// ParseCommand は先頭の引数をサブコマンドとして解釈する。残りの引数は無視する。
// 打ち間違いでサーバーが起動しないよう、未知のサブコマンドはErrUnknownCommandを返す。
func ParseCommand(args []string) (Command, error) {
	if len(args) == 0 {
		return CommandServe, nil
	}
	cmd := Command(args[0])
	if !slices.Contains(commands, cmd) {
		return "", fmt.Errorf("%w: %q (want one of %v)", ErrUnknownCommand, args[0], commands)
	}
	return cmd, nil
}
