package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/refbase/refbase/internal/config"
	"github.com/refbase/refbase/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if command == "-h" || command == "--help" || command == "help" {
		printUsage()
		return
	}

	app, err := entrypoint.New(config.NewConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := run(app, command, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(app *entrypoint.App, command string, args []string) error {
	switch command {
	case "list":
		summaries, err := app.Items.ListSummaries()
		if err != nil {
			return err
		}
		for _, s := range summaries {
			fmt.Printf("%d\t%s\t%s\t%s\n", s.ID, s.ItemType, s.Title, s.AuthorText)
		}
		return nil

	case "search":
		if len(args) < 1 {
			return fmt.Errorf("usage: search <term>")
		}
		summaries, err := app.Items.SearchItems(args[0])
		if err != nil {
			return err
		}
		for _, s := range summaries {
			fmt.Printf("%d\t%s\t%s\n", s.ID, s.ItemType, s.Title)
		}
		return nil

	case "add-pdf":
		if len(args) < 1 {
			return fmt.Errorf("usage: add-pdf <file>")
		}
		item, err := app.Items.CreateItemFromPDF(context.Background(), args[0])
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("could not create an item from %s", args[0])
		}
		fmt.Printf("Added item %d: %s\n", item.ID, item.Title)
		return nil

	case "attach":
		if len(args) < 2 {
			return fmt.Errorf("usage: attach <item-id> <file>")
		}
		itemID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[0])
		}
		attachment, err := app.Attachments.AddAttachment(itemID, args[1])
		if err != nil {
			return err
		}
		if attachment == nil {
			return fmt.Errorf("item %d or file %s not found", itemID, args[1])
		}
		fmt.Printf("Attached %s (%s)\n", attachment.Path, attachment.MimeType)
		return nil

	case "collections":
		collections, err := app.Collections.ListCollections()
		if err != nil {
			return err
		}
		for _, c := range collections {
			parent := "-"
			if c.ParentID != nil {
				parent = strconv.FormatInt(*c.ParentID, 10)
			}
			fmt.Printf("%d\t%s\tparent=%s\n", c.ID, c.Name, parent)
		}
		return nil

	case "new-collection":
		if len(args) < 1 {
			return fmt.Errorf("usage: new-collection <name>")
		}
		id, err := app.Collections.AddCollection(args[0], nil)
		if err != nil {
			return err
		}
		fmt.Printf("Created collection %d\n", id)
		return nil

	case "check":
		app.RunBackgroundChecks(context.Background())
		return nil

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Refbase %s (%s)\n\n", Version, Commit)
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  list                       List all items with their first author\n")
	fmt.Fprintf(os.Stderr, "  search <term>              Search item titles and metadata\n")
	fmt.Fprintf(os.Stderr, "  add-pdf <file>             Create an item from a document and attach it\n")
	fmt.Fprintf(os.Stderr, "  attach <item-id> <file>    Attach a file to an existing item\n")
	fmt.Fprintf(os.Stderr, "  collections                List all collections\n")
	fmt.Fprintf(os.Stderr, "  new-collection <name>      Create a root collection\n")
	fmt.Fprintf(os.Stderr, "  check                      Run the plugins' background checks\n")
}
