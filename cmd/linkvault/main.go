package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"linkvault/internal/config"
	"linkvault/internal/logger"
	"linkvault/internal/meta"
	"linkvault/internal/model"
	"linkvault/internal/service"
	"linkvault/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	resolver := meta.NewResolver(nil, cfg.MetadataTTL, cfg.FetchTimeout, log)
	svc := service.New(st, resolver, log)
	ctx := context.Background()

	switch os.Args[1] {
	case "help", "--help", "-h":
		printHelp()

	case "user-add":
		requireArgs(4, "Usage: linkvault user-add <email> <password>")
		user, err := svc.CreateUser(ctx, os.Args[2], os.Args[3])
		exitOn(err)
		fmt.Printf("Created user %s (%s)\n", user.ID, user.Email)

	case "folder-add":
		requireArgs(4, "Usage: linkvault folder-add <user-id> <name> [parent-id]")
		var parentID *string
		if len(os.Args) >= 5 {
			parentID = &os.Args[4]
		}
		folder, err := svc.CreateFolder(ctx, os.Args[2], os.Args[3], parentID)
		exitOn(err)
		fmt.Printf("Created folder %s (%s)\n", folder.ID, folder.Name)

	case "add":
		requireArgs(5, "Usage: linkvault add <user-id> <folder-id> <url> [notes]")
		notes := strings.Join(os.Args[5:], " ")
		link, err := svc.CreateLink(ctx, os.Args[2], os.Args[3], os.Args[4], notes)
		exitOn(err)
		fmt.Printf("Saved %q → %s\n", link.Title, link.ID)

	case "list":
		requireArgs(3, "Usage: linkvault list <user-id> [query]")
		query := strings.Join(os.Args[3:], " ")
		links, err := svc.ListLinks(ctx, os.Args[2], service.ListLinksParams{SearchText: query})
		exitOn(err)
		for _, l := range links {
			fmt.Printf("%s  %-30s  %s\n", l.ID, l.Title, l.URL)
		}

	case "tag-add":
		requireArgs(4, "Usage: linkvault tag-add <user-id> <name>")
		tag, err := svc.CreateTag(ctx, os.Args[2], os.Args[3])
		exitOn(err)
		fmt.Printf("Created tag %s (%s)\n", tag.ID, tag.Name)

	case "tag":
		requireArgs(5, "Usage: linkvault tag <user-id> <link-id> <tag-id>")
		exitOn(svc.AttachTag(ctx, os.Args[2], os.Args[3], os.Args[4]))
		fmt.Println("Tagged.")

	case "share":
		requireArgs(3, "Usage: linkvault share <link-id>")
		share, err := svc.ShareLink(ctx, os.Args[2])
		exitOn(err)
		fmt.Printf("Share token: %s\n", share.Token)

	case "resolve":
		requireArgs(3, "Usage: linkvault resolve <token>")
		link, err := svc.ResolveShare(ctx, os.Args[2])
		exitOn(err)
		fmt.Printf("%s\n%s\n", link.Title, link.URL)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

// openStore picks the backend: Postgres when a DSN is configured,
// in-memory when the path is "memory", SQLite otherwise.
func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.DatabaseDSN != "" {
		return store.NewPostgresStore(cfg.DatabaseDSN)
	}
	if cfg.SQLitePath == "memory" {
		return store.NewMemoryStore(), nil
	}
	return store.NewSQLiteStore(cfg.SQLitePath)
}

func requireArgs(n int, usage string) {
	if len(os.Args) < n {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
}

func exitOn(err error) {
	if err == nil {
		return
	}
	switch err {
	case model.ErrNotFound:
		fmt.Fprintln(os.Stderr, "Error: not found")
	case model.ErrConflict:
		fmt.Fprintln(os.Stderr, "Error: already exists")
	case model.ErrInvalidReference:
		fmt.Fprintln(os.Stderr, "Error: referenced entity does not exist or is not yours")
	case model.ErrValidation:
		fmt.Fprintln(os.Stderr, "Error: invalid input")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func printHelp() {
	help := `linkvault - bookmark storage and enrichment service

Usage:
  linkvault user-add <email> <password>          Register a user
  linkvault folder-add <user-id> <name> [parent] Create a folder
  linkvault add <user-id> <folder-id> <url>      Save a link (metadata resolved)
  linkvault list <user-id> [query]               List/search links
  linkvault tag-add <user-id> <name>             Create a tag
  linkvault tag <user-id> <link-id> <tag-id>     Attach a tag to a link
  linkvault share <link-id>                      Mint a share token
  linkvault resolve <token>                      Look up a shared link
  linkvault help                                 Show this help

Environment:
  LINKVAULT_DB             SQLite path ("memory" for in-memory store)
  LINKVAULT_DATABASE_DSN   Postgres DSN (overrides SQLite)
  LINKVAULT_METADATA_TTL   Metadata cache TTL (default 5m)
  LINKVAULT_FETCH_TIMEOUT  Metadata fetch timeout (default 10s)
  LINKVAULT_LOG_LEVEL      trace|debug|info|warn|error (default info)`
	fmt.Println(help)
}
