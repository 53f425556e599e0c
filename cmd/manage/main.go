// Command manage runs operator tasks against the configured database and cache.
//
//	manage creategroup -title Cats -slug cats -description "All about cats"
//	manage deletegroup -slug cats
//	manage createuser -username admin -password secret -staff
//	manage setstaff -username admin -staff=false
//	manage clearcache
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/logger"
	"inkwell/internal/services"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: manage <creategroup|deletegroup|createuser|setstaff|clearcache> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "creategroup", "deletegroup", "createuser", "setstaff", "clearcache":
	default:
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel, false)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	if err := run(context.Background(), cfg, zl, os.Args[1], os.Args[2:]); err != nil {
		if ve, ok := services.AsValidation(err); ok {
			for field, msg := range ve.Fields {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
			}
			os.Exit(1)
		}
		zl.Fatal(os.Args[1]+" failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)

	// clearcache 不需要数据库
	if cmd == "clearcache" {
		if err := fs.Parse(args); err != nil {
			return err
		}
		pc, closeCache, err := cache.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeCache()
		if cfg.CacheBackend == config.CacheBackendMemory {
			zl.Warn("memory cache lives inside the server process; use POST /admin/cache/clear instead")
		}
		if err := pc.Clear(ctx); err != nil {
			return err
		}
		zl.Info("page cache cleared", zap.String("backend", cfg.CacheBackend))
		return nil
	}

	gdb, err := db.Open(cfg, zl)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	reg := services.NewRegistry(gdb, cfg.PostsPerPage, cfg.MediaDir)

	switch cmd {
	case "creategroup":
		title := fs.String("title", "", "group title")
		slug := fs.String("slug", "", "unique slug used in URLs")
		desc := fs.String("description", "", "group description")
		if err := fs.Parse(args); err != nil {
			return err
		}
		g, err := reg.Groups.Create(ctx, services.GroupInput{Title: *title, Slug: *slug, Description: *desc})
		if err != nil {
			return err
		}
		zl.Info("group created", zap.Uint("id", g.ID), zap.String("slug", g.Slug))

	case "deletegroup":
		slug := fs.String("slug", "", "slug of the group to delete")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := reg.Groups.Delete(ctx, *slug); err != nil {
			return err
		}
		zl.Info("group deleted, its posts are kept without a group", zap.String("slug", *slug))

	case "createuser":
		username := fs.String("username", "", "login name")
		password := fs.String("password", "", "initial password")
		staff := fs.Bool("staff", false, "grant staff rights")
		if err := fs.Parse(args); err != nil {
			return err
		}
		u, err := reg.Auth.CreateUser(ctx, *username, *password, *staff)
		if errors.Is(err, services.ErrConflict) {
			return fmt.Errorf("user %q already exists", *username)
		}
		if err != nil {
			return err
		}
		zl.Info("user created", zap.Uint("id", u.ID), zap.String("username", u.Username), zap.Bool("staff", u.IsStaff))

	case "setstaff":
		username := fs.String("username", "", "login name")
		staff := fs.Bool("staff", true, "staff flag to set")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := reg.Auth.SetStaff(ctx, *username, *staff); err != nil {
			return err
		}
		zl.Info("staff flag updated", zap.String("username", *username), zap.Bool("staff", *staff))

	default:
		usage()
	}
	return nil
}
