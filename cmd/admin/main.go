package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"user-directory-api/internal/core/auth"
	"user-directory-api/internal/core/config"
	"user-directory-api/internal/core/database"
	"user-directory-api/internal/core/logger"
	"user-directory-api/internal/domain"
	"user-directory-api/internal/feature/user"
	"user-directory-api/internal/repo"
	"user-directory-api/pkg/utils"
)

// 运维命令：
//
//	admin migrate               建表/补列
//	admin hash-password <pw>    生成 auth.users 里用的 bcrypt 哈希
//	admin token -sub alice      直接签一个 token（调试用）
//	admin users [-id 7]         按 API 的 Result 信封输出用户（不经过 HTTP）
func main() {
	_ = godotenv.Load()
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "migrate":
		err = migrate(os.Args[2:])
	case "hash-password":
		err = hashPassword(os.Args[2:])
	case "token":
		err = token(os.Args[2:])
	case "users":
		err = users(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "admin:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <migrate|hash-password|token|users> [flags]")
}

// openDB 读配置并连库；返回的 close 负责 logger 与连接
func openDB(path string) (*gorm.DB, *zap.Logger, func(), error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}
	log, cleanup := logger.FromConfig(cfg.Log)
	db, err := database.NewGorm(database.Opts{
		Driver:    cfg.DB.Driver,
		DSN:       cfg.DB.DSN,
		Username:  cfg.DB.Username,
		Password:  cfg.DB.Password,
		LogLevel:  cfg.DB.LogLevel,
		LogWriter: logger.ToWriter(log.Named("gorm"), zapcore.InfoLevel),
	})
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("db open: %w", err)
	}
	closeAll := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		cleanup()
	}
	return db, log.With(zap.String("driver", cfg.DB.Driver)), closeAll, nil
}

func migrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	path := fs.String("config", os.Getenv("CONFIG_PATH"), "config file")
	_ = fs.Parse(args)

	db, log, done, err := openDB(*path)
	if err != nil {
		return err
	}
	defer done()
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	log.Info("migrate done", zap.String("table", domain.User{}.TableName()))
	return nil
}

func users(args []string) error {
	fs := flag.NewFlagSet("users", flag.ExitOnError)
	path := fs.String("config", os.Getenv("CONFIG_PATH"), "config file")
	id := fs.Int64("id", 0, "user id; 0 lists all users")
	_ = fs.Parse(args)

	db, log, done, err := openDB(*path)
	if err != nil {
		return err
	}
	defer done()
	return printUsers(context.Background(), user.NewManager(repo.NewUserRepo(db), log), *id, os.Stdout)
}

// printUsers 输出 Result 信封本身（message/success/statusCode/entity），失败时返回非 nil
func printUsers(ctx context.Context, m *user.Manager, id int64, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if id == 0 {
		r := m.List(ctx)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return resultErr(r.Success(), r.Message())
	}
	r := m.GetByID(ctx, id)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return resultErr(r.Success(), r.Message())
}

func resultErr(ok bool, msg string) error {
	if ok {
		return nil
	}
	return errors.New(msg)
}

func hashPassword(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("hash-password needs exactly one password")
	}
	h, err := utils.HashPassword(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Println(h)
	return nil
}

func token(args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	path := fs.String("config", os.Getenv("CONFIG_PATH"), "config file")
	sub := fs.String("sub", "", "subject (username)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*path)
	if err != nil {
		return err
	}
	j := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	tok, err := j.Issue(*sub, auth.RoleUser)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}
