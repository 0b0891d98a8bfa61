package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/postforge/postforge/catalog"
	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/llm"
	"github.com/postforge/postforge/logger"
	"github.com/postforge/postforge/session"
)

var rootCmd = &cobra.Command{
	Use:   "postforge",
	Short: "Postforge generates platform-tailored promo posts for GitHub projects",
	Long:  `Postforge analyzes a public GitHub repository and uses an LLM to write promotional posts tailored to each social and launch platform, with deterministic fallbacks when the model is unavailable.`,
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Analyze a repository and generate posts for the selected platforms",
	Run: func(cmd *cobra.Command, args []string) {
		flags, err := parseGenFlags(cmd)
		if err != nil {
			fmt.Printf("Error parsing flags: %v\n", err)
			os.Exit(1)
		}

		cfg, store, err := setup(flags.config, flags.provider)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			os.Exit(1)
		}

		model, err := newGenerateModel(flags, cfg, store)
		if err != nil {
			fmt.Printf("Error initializing model: %v\n", err)
			os.Exit(1)
		}

		p := tea.NewProgram(model)
		finalModel, err := p.Run()
		if err != nil {
			fmt.Printf("Error running program: %v\n", err)
			os.Exit(1)
		}
		model.Shutdown()

		final, ok := finalModel.(generateCmdModel)
		if !ok || final.state != Finished {
			os.Exit(1)
		}

		data, err := store.Load()
		if err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("Error loading session: %v", err)))
			os.Exit(1)
		}
		fmt.Println()
		fmt.Println(renderPosts(data.Posts))
		if model.engine.QuotaWarning() {
			fmt.Println(warnStyle.Render("Provider quota was exhausted during generation; some posts use fallback templates."))
		}
	},
}

var communitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "Recommend discussion communities for the analyzed project",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		provider, _ := cmd.Flags().GetString("provider")

		cfg, store, err := setup(configPath, provider)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			os.Exit(1)
		}

		data, err := store.Load()
		if err != nil || data.Project == nil {
			fmt.Println(errorStyle.Render("No analyzed project in the session. Run 'postforge gen' first."))
			os.Exit(1)
		}

		generator, err := newGenerator(cfg)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			os.Exit(1)
		}

		rec, err := generator.FindRelevantCommunities(context.Background(), data.Project)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			os.Exit(1)
		}
		fmt.Println(renderRecommendation(rec))
		if generator.QuotaExhausted() {
			fmt.Println(warnStyle.Render("Provider quota was exhausted; recommendations are rule-based."))
		}
	},
}

var modifyCmd = &cobra.Command{
	Use:   "modify",
	Short: "Rewrite the saved posts with a natural-language instruction",
	Run: func(cmd *cobra.Command, args []string) {
		instruction, _ := cmd.Flags().GetString("instruction")
		configPath, _ := cmd.Flags().GetString("config")
		provider, _ := cmd.Flags().GetString("provider")

		if strings.TrimSpace(instruction) == "" {
			fmt.Println(errorStyle.Render("An instruction is required, e.g. --instruction \"make them shorter\""))
			os.Exit(1)
		}

		cfg, store, err := setup(configPath, provider)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			os.Exit(1)
		}

		data, err := store.Load()
		if err != nil || data.Project == nil || len(data.Posts) == 0 {
			fmt.Println(errorStyle.Render("No saved posts in the session. Run 'postforge gen' first."))
			os.Exit(1)
		}

		generator, err := newGenerator(cfg)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			os.Exit(1)
		}

		posts, err := generator.ModifySocialPosts(context.Background(), data.Project, data.Posts, instruction)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			os.Exit(1)
		}
		if err := store.SavePosts(posts); err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("Error saving session: %v", err)))
			os.Exit(1)
		}
		fmt.Println(renderPosts(posts))
		if generator.QuotaExhausted() {
			fmt.Println(warnStyle.Render("Provider quota was exhausted; some posts were left unchanged."))
		}
	},
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List the supported platforms and their limits",
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range catalog.Platforms() {
			line := fmt.Sprintf("%s (%d chars, %d hashtags)", p.Name, p.MaxCharacters, p.HashtagLimit)
			if p.Community {
				line += fmt.Sprintf(" — community space under %s", p.ParentPlatform)
			}
			fmt.Println(line)
		}
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved session",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		_, store, err := setup(configPath, "")
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			os.Exit(1)
		}
		if err := store.Delete(); err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("Error deleting session: %v", err)))
			os.Exit(1)
		}
		fmt.Println("Session deleted.")
	},
}

func init() {
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(communitiesCmd)
	rootCmd.AddCommand(modifyCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(resetCmd)

	genCmd.Flags().StringP("url", "u", "", "GitHub repository URL to promote")
	genCmd.Flags().StringSliceP("platforms", "p", nil, "Platforms to generate posts for (default: all main platforms)")
	genCmd.Flags().StringP("instructions", "i", "", "Extra instructions appended to every generation prompt")
	genCmd.Flags().StringP("config", "c", "", "Path to custom configuration file")
	genCmd.Flags().String("provider", "", "LLM provider: openai, anthropic or gemini")

	communitiesCmd.Flags().StringP("config", "c", "", "Path to custom configuration file")
	communitiesCmd.Flags().String("provider", "", "LLM provider: openai, anthropic or gemini")

	modifyCmd.Flags().StringP("instruction", "i", "", "How the posts should change")
	modifyCmd.Flags().StringP("config", "c", "", "Path to custom configuration file")
	modifyCmd.Flags().String("provider", "", "LLM provider: openai, anthropic or gemini")
	modifyCmd.MarkFlagRequired("instruction")

	resetCmd.Flags().StringP("config", "c", "", "Path to custom configuration file")
}

func parseGenFlags(cmd *cobra.Command) (genFlags, error) {
	url, err := cmd.Flags().GetString("url")
	if err != nil {
		return genFlags{}, err
	}
	platforms, err := cmd.Flags().GetStringSlice("platforms")
	if err != nil {
		return genFlags{}, err
	}
	instructions, err := cmd.Flags().GetString("instructions")
	if err != nil {
		return genFlags{}, err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return genFlags{}, err
	}
	provider, err := cmd.Flags().GetString("provider")
	if err != nil {
		return genFlags{}, err
	}

	return genFlags{
		url:          url,
		platforms:    platforms,
		instructions: instructions,
		config:       configPath,
		provider:     provider,
	}, nil
}

func setup(configPath, providerOverride string) (*config.Config, session.Store, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if providerOverride != "" {
		cfg.Provider = providerOverride
	}
	store := session.NewFileStore(afero.NewOsFs(), cfg.SessionPath)
	return cfg, store, nil
}

func newGenerator(cfg *config.Config) (llm.Generator, error) {
	return llm.NewGenerator(llm.Config{
		Provider:       cfg.Provider,
		APIKey:         cfg.APIKey(),
		Model:          cfg.ModelName,
		RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		SessionCallCap: cfg.GeminiSessionCap,
		CallSpacing:    time.Duration(cfg.GeminiCallSpacingSeconds) * time.Second,
		Logger:         logger.GetLogger(),
	})
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
