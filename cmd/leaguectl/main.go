// Command leaguectl runs league operations against the database without the HTTP server.
//
// Usage:
//
//	leaguectl migrate
//	leaguectl resolve 42
//	leaguectl league 7 --band 1 --band 2 --gender Male --prize 300 --entry 100
//	leaguectl setup 7 --player 3 --player 5 --player 9 --prefix "Royal Rumble"
//	leaguectl tournament run 7 --prize 500 --entry 100
//	leaguectl auction 12
//	leaguectl auction open-market
//	leaguectl leaderboard rebuild
//	leaguectl hash-password 's3cret'
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Dosada05/wrestling-league/app"
	"github.com/Dosada05/wrestling-league/config"
	"github.com/Dosada05/wrestling-league/db"
	"github.com/Dosada05/wrestling-league/models"
	"github.com/Dosada05/wrestling-league/utils"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	root := &cobra.Command{
		Use:           "leaguectl",
		Short:         "Wrestling league operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(resolveCmd())
	root.AddCommand(leagueCmd())
	root.AddCommand(setupCmd())
	root.AddCommand(tournamentCmd())
	root.AddCommand(auctionCmd())
	root.AddCommand(leaderboardCmd())
	root.AddCommand(hashPasswordCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// withLeague loads config, builds the services and cancels on Ctrl-C.
func withLeague(fn func(ctx context.Context, league *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	league, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer league.Close()

	return fn(ctx, league)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the reference schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLeague(func(ctx context.Context, league *app.App) error {
				if err := db.ApplySchema(ctx, league.DB); err != nil {
					return err
				}
				logger.Info("schema applied")
				return nil
			})
		},
	}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve MATCH_ID",
		Short: "Resolve a pending match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withLeague(func(ctx context.Context, league *app.App) error {
				result, err := league.Matches.ResolveMatch(ctx, matchID)
				if err != nil {
					return err
				}
				return printJSON(result)
			})
		},
	}
}

func leagueCmd() *cobra.Command {
	var (
		bandIDs []int
		genders []string
		format  models.LeagueFormat
	)
	cmd := &cobra.Command{
		Use:   "league [TOURNAMENT_ID]",
		Short: "Create round-robin matches for every band and gender",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tournamentID := 0
			if len(args) == 1 {
				var err error
				if tournamentID, err = parseID(args[0]); err != nil {
					return err
				}
			}
			format.BandIDs = bandIDs
			for _, g := range genders {
				format.Genders = append(format.Genders, models.Gender(g))
			}
			return withLeague(func(ctx context.Context, league *app.App) error {
				matches, err := league.Tournaments.CreateLeague(ctx, tournamentID, format)
				if err != nil {
					return err
				}
				logger.Info("league created", "matches", len(matches))
				return printJSON(matches)
			})
		},
	}
	cmd.Flags().IntSliceVar(&bandIDs, "band", nil, "Band id (repeatable, all bands when omitted)")
	cmd.Flags().StringSliceVar(&genders, "gender", nil, "Male, Female or Others (repeatable)")
	cmd.Flags().StringVar(&format.NamePrefix, "prefix", models.DefaultLeagueNamePrefix, "Match name prefix")
	cmd.Flags().Float64Var(&format.Prize, "prize", 0, "Prize amount per match")
	cmd.Flags().Float64Var(&format.Entry, "entry", 0, "Entry amount per match")
	return cmd
}

func setupCmd() *cobra.Command {
	var (
		playerIDs    []int
		prefix       string
		prize, entry float64
	)
	cmd := &cobra.Command{
		Use:   "setup [TOURNAMENT_ID]",
		Short: "Create matches for every pair of the given players",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tournamentID := 0
			if len(args) == 1 {
				var err error
				if tournamentID, err = parseID(args[0]); err != nil {
					return err
				}
			}
			return withLeague(func(ctx context.Context, league *app.App) error {
				matches, err := league.Tournaments.CreateMatchSetup(ctx, tournamentID, playerIDs, prize, entry, prefix)
				if err != nil {
					return err
				}
				return printJSON(matches)
			})
		},
	}
	cmd.Flags().IntSliceVar(&playerIDs, "player", nil, "Player id (repeatable)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Match name prefix")
	cmd.Flags().Float64Var(&prize, "prize", 0, "Prize amount per match")
	cmd.Flags().Float64Var(&entry, "entry", 0, "Entry amount per match")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}

func tournamentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Tournament operations",
	}

	var prize, entry float64
	run := &cobra.Command{
		Use:   "run TOURNAMENT_ID",
		Short: "Resolve pending matches and play tie-breaks until one champion remains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tournamentID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withLeague(func(ctx context.Context, league *app.App) error {
				result, err := league.Tournaments.RunTournamentToCompletion(ctx, tournamentID, prize, entry)
				if err != nil {
					return err
				}
				logger.Info("tournament completed", "champion_id", result.ChampionID, "tiebreak_rounds", result.TiebreakRounds)
				return printJSON(result)
			})
		},
	}
	run.Flags().Float64Var(&prize, "prize", 0, "Prize amount of tie-break matches")
	run.Flags().Float64Var(&entry, "entry", 0, "Entry amount of tie-break matches")

	standings := &cobra.Command{
		Use:   "standings TOURNAMENT_ID",
		Short: "Print tournament standings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tournamentID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withLeague(func(ctx context.Context, league *app.App) error {
				rows, err := league.Tournaments.GetStandings(ctx, tournamentID)
				if err != nil {
					return err
				}
				return printJSON(rows)
			})
		},
	}

	cmd.AddCommand(run, standings)
	return cmd
}

func auctionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auction PLAYER_ID",
		Short: "Sell an open-market player to a random band that can afford them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withLeague(func(ctx context.Context, league *app.App) error {
				result, err := league.Auctions.Auction(ctx, playerID)
				if err != nil {
					return err
				}
				return printJSON(result)
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "open-market",
		Short: "Auction every active open-market player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLeague(func(ctx context.Context, league *app.App) error {
				report, err := league.Auctions.RunOpenMarket(ctx)
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	})
	return cmd
}

func leaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Net worth leaderboard",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "rebuild",
		Short: "Reload the Redis leaderboard from postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLeague(func(ctx context.Context, league *app.App) error {
				if league.Board == nil {
					return fmt.Errorf("REDIS_ADDR is not configured or unreachable")
				}
				return league.Leaderboard.Rebuild(ctx)
			})
		},
	})
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password PASSWORD",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}
