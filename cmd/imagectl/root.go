package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/notedwin-dev/storyforge-ai/pkg/types"
)

// buildRootCmd constructs the Cobra command tree wired to the HTTP client.
func buildRootCmd() *cobra.Command {
	server := "http://localhost:8080"
	if v := os.Getenv("STORYFORGE_SERVER"); v != "" {
		server = v
	}

	var timeout time.Duration
	root := &cobra.Command{
		Use:           "imagectl",
		Short:         "Client for the imaged image-generation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&server, "server", server, "Base URL of the imaged server (defaults STORYFORGE_SERVER or http://localhost:8080)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Request timeout")

	cli := func() *client { return newClient(server, timeout) }

	statusCmd := &cobra.Command{Use: "status", Short: "Show service status", RunE: func(cmd *cobra.Command, args []string) error {
		st, err := cli().status(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("ready:        %v\n", st.Ready)
		fmt.Printf("state:        %s\n", st.State)
		fmt.Printf("device:       %s\n", st.Device)
		fmt.Printf("model:        %s\n", st.CurrentModel)
		fmt.Printf("cached:       %v\n", st.CachedModels)
		fmt.Printf("memory:       %d MB in %d handle(s), capacity %d\n", st.Memory.ResidentMB, st.Memory.ResidentCount, st.Memory.Capacity)
		fmt.Printf("loads:        %d\n", st.LoadsTotal)
		fmt.Printf("generations:  %d\n", st.GenerationsTotal)
		fmt.Printf("uptime:       %ds\n", st.UptimeSeconds)
		if st.LastError != "" {
			fmt.Printf("last error:   %s\n", st.LastError)
		}
		return nil
	}}

	modelsCmd := &cobra.Command{Use: "models", Short: "List styles and models", RunE: func(cmd *cobra.Command, args []string) error {
		m, err := cli().models(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("styles:  %v\n", m.Styles)
		fmt.Printf("active:  %s\n", m.CurrentModel)
		fmt.Printf("cached:  %v\n", m.CachedModels)
		for _, c := range m.Catalog {
			if c.Path != "" {
				fmt.Printf("catalog: %s (%s)\n", c.ID, c.Path)
			} else {
				fmt.Printf("catalog: %s\n", c.ID)
			}
		}
		return nil
	}}

	switchCmd := &cobra.Command{
		Use:     "switch <model-id>",
		Short:   "Load and activate a model",
		Example: "  imagectl switch runwayml/stable-diffusion-v1-5",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli().switchModel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(out.Message)
			return nil
		},
	}

	var genStyle, genOut string
	var genSeed int64
	generateCmd := &cobra.Command{
		Use:     "generate <prompt>",
		Short:   "Generate an image from a prompt",
		Example: "  imagectl generate \"a boy and his dog in a meadow\" --style cartoon -o out.png",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := types.GenerateRequest{Prompt: args[0], Style: genStyle}
			if cmd.Flags().Changed("seed") {
				req.Seed = &genSeed
			}
			resp, err := cli().generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := saveImage(resp, genOut); err != nil {
				return err
			}
			printMetadata(resp.Metadata, genOut)
			return nil
		},
	}
	generateCmd.Flags().StringVar(&genStyle, "style", "", "Style preset (cartoon, anime, storybook, realistic)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Seed for reproducible output")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "output.png", "Output file")

	var sceneStyle, sceneOut, sceneImage string
	var sceneSeed int64
	var sceneStrength float64
	sceneCmd := &cobra.Command{
		Use:     "scene <prompt>",
		Short:   "Generate a scene anchored to a character image",
		Example: "  imagectl scene \"the character explores a cave\" --image character.png --strength 0.7 -o scene.png",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sceneImage == "" {
				return fmt.Errorf("--image is required")
			}
			encoded, err := loadImageBase64(sceneImage)
			if err != nil {
				return err
			}
			req := types.SceneRequest{
				Prompt:         args[0],
				CharacterImage: encoded,
				Style:          sceneStyle,
			}
			if cmd.Flags().Changed("strength") {
				req.Strength = &sceneStrength
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &sceneSeed
			}
			resp, err := cli().generateScene(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := saveImage(resp, sceneOut); err != nil {
				return err
			}
			printMetadata(resp.Metadata, sceneOut)
			return nil
		},
	}
	sceneCmd.Flags().StringVar(&sceneStyle, "style", "", "Style preset")
	sceneCmd.Flags().StringVar(&sceneImage, "image", "", "Reference character image (PNG or JPEG)")
	sceneCmd.Flags().Float64Var(&sceneStrength, "strength", 0.7, "Deviation from the reference, in [0.1, 1.0] (server default when omitted)")
	sceneCmd.Flags().Int64Var(&sceneSeed, "seed", 0, "Seed for reproducible output")
	sceneCmd.Flags().StringVarP(&sceneOut, "out", "o", "scene.png", "Output file")

	root.AddCommand(statusCmd, modelsCmd, switchCmd, generateCmd, sceneCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenPowerShellCompletionWithDesc(os.Stdout) }})
	root.AddCommand(completionCmd)

	return root
}

func printMetadata(meta *types.GenerateMetadata, out string) {
	if meta == nil {
		fmt.Printf("saved %s\n", out)
		return
	}
	fmt.Printf("saved %s (model=%s style=%s steps=%d size=%s", out, meta.Model, meta.Style, meta.Steps, meta.Size)
	if meta.PromptTruncated {
		fmt.Printf(" prompt_truncated")
	}
	fmt.Println(")")
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()
	root := buildRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
