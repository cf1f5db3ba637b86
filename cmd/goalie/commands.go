package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/stefanpenner/goalie/pkg/goal"
)

func registerCommands(root *cli.Command, a *app) {
	var (
		jsonOut   bool
		completed bool
		all       bool
		yes       bool
		due       string
	)

	root.Commands = append(root.Commands,
		&cli.Command{
			Name:      "add",
			Usage:     "Add a goal to the active list",
			UsageText: "goalie add [--due YYYY-MM-DD] <title>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "due",
					Usage:       "due date (defaults to one week out)",
					Destination: &due,
				},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				title := strings.Join(c.Args().Slice(), " ")
				endDate := time.Now().AddDate(0, 0, 7)
				if due != "" {
					d, err := time.ParseInLocation("2006-01-02", due, time.Local)
					if err != nil {
						return fmt.Errorf("invalid --due %q: use YYYY-MM-DD", due)
					}
					endDate = d
				}
				if err := goal.ValidateInput(goal.Input{Title: title, EndDate: endDate}); err != nil {
					return err
				}
				g, err := a.store.Add(title, endDate)
				if err != nil {
					return err
				}
				fmt.Printf("Added %s (due %s)\n", g.Title, g.EndDate.Format("2006-01-02"))
				return nil
			},
		},
		&cli.Command{
			Name:      "ls",
			Usage:     "List goals",
			UsageText: "goalie ls [--completed | --all] [--json]",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "completed", Usage: "list completed goals", Destination: &completed},
				&cli.BoolFlag{Name: "all", Usage: "list both collections", Destination: &all},
				&cli.BoolFlag{Name: "json", Usage: "output as JSON", Destination: &jsonOut},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				return cmdLs(a, completed, all, jsonOut)
			},
		},
		&cli.Command{
			Name:      "complete",
			Usage:     "Move an active goal to the completed list",
			UsageText: "goalie complete <id|title>",
			Action: func(ctx context.Context, c *cli.Command) error {
				g, err := findActive(a, c.Args().First())
				if err != nil {
					return err
				}
				done, err := a.store.Complete(g.ID)
				if err != nil {
					return err
				}
				fmt.Printf("Completed %s\n", done.Title)
				return nil
			},
		},
		&cli.Command{
			Name:      "restore",
			Usage:     "Move a completed goal back to the active list",
			UsageText: "goalie restore <id|title>",
			Action: func(ctx context.Context, c *cli.Command) error {
				cg, err := findCompleted(a, c.Args().First())
				if err != nil {
					return err
				}
				g, err := a.store.Restore(cg.ID)
				if err != nil {
					return err
				}
				fmt.Printf("Restored %s (due %s)\n", g.Title, g.EndDate.Format("2006-01-02"))
				return nil
			},
		},
		&cli.Command{
			Name:      "delete",
			Usage:     "Permanently delete a goal",
			UsageText: "goalie delete [--completed] [--yes] <id|title>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "completed", Usage: "delete from the completed list", Destination: &completed},
				&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip confirmation", Destination: &yes},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				return cmdDelete(a, c.Args().First(), completed, yes)
			},
		},
		&cli.Command{
			Name:      "move",
			Usage:     "Move a goal to a 1-based position in its list",
			UsageText: "goalie move [--completed] <id|title> <position>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "completed", Usage: "move within the completed list", Destination: &completed},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				return cmdMove(a, c.Args().Get(0), c.Args().Get(1), completed)
			},
		},
		&cli.Command{
			Name:      "queue",
			Usage:     "Show reorders queued while offline",
			UsageText: "goalie queue [--json]",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "json", Usage: "output as JSON", Destination: &jsonOut},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				return cmdQueue(a, jsonOut)
			},
		},
		&cli.Command{
			Name:      "sync",
			Usage:     "Drain the offline reorder queue",
			UsageText: "goalie sync",
			Action: func(ctx context.Context, c *cli.Command) error {
				n := a.store.SyncPending()
				if n == 0 {
					fmt.Println("Nothing queued")
				} else {
					fmt.Printf("Synced %d queued reorder(s)\n", n)
				}
				return nil
			},
		},
	)
}

func cmdLs(a *app, completed, all, jsonOut bool) error {
	active := a.store.LoadActive()
	done := a.store.LoadCompleted()

	if jsonOut {
		out := map[string]any{}
		if all || !completed {
			out["active"] = active
		}
		if all || completed {
			out["completed"] = done
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	now := time.Now()

	if all || !completed {
		for _, g := range active {
			pending := ""
			if g.SyncStatus == goal.StatusPendingSync {
				pending = "pending sync"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(g.ID), g.Title, goal.Countdown(g.EndDate, now), pending)
		}
		if len(active) == 0 {
			fmt.Fprintln(w, "(no active goals)")
		}
	}
	if all || completed {
		for _, cg := range done {
			fmt.Fprintf(w, "%s\t%s\tdone %s\t\n", shortID(cg.ID), cg.Title, cg.CompletedAt.Format("2006-01-02"))
		}
		if len(done) == 0 {
			fmt.Fprintln(w, "(no completed goals)")
		}
	}
	return w.Flush()
}

func cmdDelete(a *app, arg string, fromCompleted, yes bool) error {
	var id, title string
	list := goal.ListActive
	if fromCompleted {
		list = goal.ListCompleted
		cg, err := findCompleted(a, arg)
		if err != nil {
			return err
		}
		id, title = cg.ID, cg.Title
	} else {
		g, err := findActive(a, arg)
		if err != nil {
			return err
		}
		id, title = g.ID, g.Title
	}

	if !yes {
		fmt.Printf("Delete '%s'? [y/N] ", title)
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(answer, "y") {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := a.store.Delete(list, id); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", title)
	return nil
}

func cmdMove(a *app, arg, posArg string, inCompleted bool) error {
	pos, err := strconv.Atoi(posArg)
	if err != nil || pos < 1 {
		return fmt.Errorf("position must be a 1-based index, got %q", posArg)
	}

	var id string
	list := goal.ListActive
	if inCompleted {
		list = goal.ListCompleted
		cg, err := findCompleted(a, arg)
		if err != nil {
			return err
		}
		id = cg.ID
	} else {
		g, err := findActive(a, arg)
		if err != nil {
			return err
		}
		id = g.ID
	}

	if err := a.store.MoveSingle(list, id, pos-1); err != nil {
		return err
	}
	fmt.Printf("Moved to position %d\n", pos)
	return nil
}

func cmdQueue(a *app, jsonOut bool) error {
	ops := a.store.Queue().Pending()

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ops)
	}

	if len(ops) == 0 {
		fmt.Println("Queue is empty")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, op := range ops {
		fmt.Fprintf(w, "%s\t%s\t%d goal(s)\t%s\n",
			op.Timestamp.Format(time.RFC3339), op.ListType, len(op.GoalIDs), op.SyncStatus)
	}
	return w.Flush()
}

// findActive resolves an ID, unique ID prefix, or exact title against the
// active collection.
func findActive(a *app, arg string) (goal.Goal, error) {
	if arg == "" {
		return goal.Goal{}, fmt.Errorf("missing goal argument")
	}
	var matches []goal.Goal
	for _, g := range a.store.LoadActive() {
		if g.ID == arg || g.Title == arg {
			return g, nil
		}
		if strings.HasPrefix(g.ID, arg) {
			matches = append(matches, g)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return goal.Goal{}, fmt.Errorf("no active goal matches %q", arg)
	default:
		return goal.Goal{}, fmt.Errorf("%q matches %d active goals, be more specific", arg, len(matches))
	}
}

func findCompleted(a *app, arg string) (goal.CompletedGoal, error) {
	if arg == "" {
		return goal.CompletedGoal{}, fmt.Errorf("missing goal argument")
	}
	var matches []goal.CompletedGoal
	for _, cg := range a.store.LoadCompleted() {
		if cg.ID == arg || cg.Title == arg {
			return cg, nil
		}
		if strings.HasPrefix(cg.ID, arg) {
			matches = append(matches, cg)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return goal.CompletedGoal{}, fmt.Errorf("no completed goal matches %q", arg)
	default:
		return goal.CompletedGoal{}, fmt.Errorf("%q matches %d completed goals, be more specific", arg, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
