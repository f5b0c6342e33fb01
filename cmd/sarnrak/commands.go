package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/sarnrak/internal/ai"
	"github.com/nhle/sarnrak/internal/credential"
	"github.com/nhle/sarnrak/internal/gallery"
	"github.com/nhle/sarnrak/internal/metrics"
	"github.com/nhle/sarnrak/internal/model"
	"github.com/nhle/sarnrak/internal/ui/dashboard"
	"github.com/nhle/sarnrak/internal/wedding"
)

var errNoAdvisor = errors.New("no Gemini API key: set " + credential.GeminiEnv + " or run `sarnrak key set`")

var (
	jsonOutput bool
	outputPath string
	assumeYes  bool
	keyValue   string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print budget, guest and ceremony figures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		rt, err := openRuntime(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		rec := rt.store.Snapshot()
		s := metrics.Summarize(rec)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), s)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s ♥ %s  (%s)\n", rec.CoupleNames.Groom, rec.CoupleNames.Bride, rec.Theme.Name)
		if rec.Date != "" {
			fmt.Fprintf(w, "Date:        %s\n", rec.Date)
		}
		fmt.Fprintf(w, "Budget:      %s spent of %s (%d%%), remaining %s\n",
			dashboard.Baht(s.TotalActual), dashboard.Baht(s.BudgetTotal), s.ProgressPercent, dashboard.Baht(s.Remaining))
		fmt.Fprintf(w, "Guests:      %d invited, %d confirmed, %d seated, headcount %d\n",
			s.Guests, s.Confirmed, s.Seated, s.Headcount)
		fmt.Fprintf(w, "Tables:      %d (capacity %d)\n", s.Tables, s.TableCapacity)
		fmt.Fprintf(w, "Rituals:     %d/%d done\n", s.RitualsDone, s.RitualsTotal)
		fmt.Fprintf(w, "Production:  %d open of %d\n", s.ProductionOpen, s.ProductionTotal)
		fmt.Fprintf(w, "Menu:        %d dishes\n", s.MenuItems)
		fmt.Fprintf(w, "Gallery:     %d images\n", s.GalleryImages)
		if err := rt.store.PersistErr(); err != nil {
			fmt.Fprintf(w, "warning: storage unavailable: %v\n", err)
		}
		return nil
	},
}

var adviseCmd = &cobra.Command{
	Use:   "advise <question>",
	Short: "Ask Sarn Rak for planning advice",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		rt, err := openRuntime(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.advisor == nil {
			return errNoAdvisor
		}

		answer := rt.advisor.Advice(ctx, strings.Join(args, " "), ai.ContextSummary(rt.store.Snapshot()))
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

var backdropCmd = &cobra.Command{
	Use:   "backdrop",
	Short: "Generate a backdrop idea for the current theme and save it to the gallery",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		rt, err := openRuntime(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.advisor == nil {
			return errNoAdvisor
		}

		theme := rt.store.Snapshot().Theme
		url, err := rt.advisor.BackdropIdea(ctx, theme)
		if err != nil || url == "" {
			return errors.New("ไม่สามารถสร้างรูปภาพได้ในขณะนี้ กรุณาลองใหม่อีกครั้ง")
		}
		img := gallery.SaveInspiration(ctx, rt.store, url, "Backdrop: "+theme.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "saved backdrop %s to the gallery\n", img.ID)
		return nil
	},
}

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Generate a planning checklist sized to the budget and guest list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		rt, err := openRuntime(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.advisor == nil {
			return errNoAdvisor
		}

		rec := rt.store.Snapshot()
		items := rt.advisor.Checklist(ctx, rec.BudgetTotal, len(rec.Guests))
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), items)
		}
		if len(items) == 0 {
			return errors.New("no checklist could be generated")
		}
		for _, it := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "[%-6s] %s  %s\n", it.Priority, it.Task, dashboard.Baht(it.EstimatedCost))
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Add image files to the gallery as engagement photos",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		rt, err := openRuntime(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		results := rt.importer.Import(ctx, args)
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: added %s\n", r.Path, r.Image.ID)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) could not be imported", failed, len(results))
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the wedding record as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		rt, err := openRuntime(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		data, err := wedding.Encode(rt.store.Snapshot())
		if err != nil {
			return err
		}
		if outputPath == "" || outputPath == "-" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(outputPath, data, 0o644)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace the wedding record with an exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		rec, err := wedding.Decode(data)
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		if !assumeYes && !confirm("Replace the current wedding plan with "+args[0]+"?") {
			return nil
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		rt, err := openRuntime(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		rt.store.Update(ctx, wedding.Replace(rec))
		if err := rt.store.PersistErr(); err != nil {
			return fmt.Errorf("saving restored record: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "restored")
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the saved plan and start over from defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !assumeYes && !confirm("Delete the whole wedding plan? This cannot be undone.") {
			return nil
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()
		rt, err := openRuntime(ctx, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		if _, err := rt.store.Clear(ctx); err != nil {
			return fmt.Errorf("clearing record: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "plan reset to defaults")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !assumeYes {
			return fmt.Errorf("%s already exists, use --yes to overwrite", configPath)
		}
		if err := model.SaveConfig(configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored Gemini API key",
}

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the Gemini API key in the system keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		value := strings.TrimSpace(keyValue)
		if value == "" {
			err := huh.NewInput().
				Title("Gemini API key").
				EchoMode(huh.EchoModePassword).
				Value(&value).
				Run()
			if err != nil {
				return err
			}
			value = strings.TrimSpace(value)
		}
		if value == "" {
			return errors.New("empty key")
		}
		if err := credential.Set(credential.GeminiKey, value); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "key stored")
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored Gemini API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credential.Delete(credential.GeminiKey); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "key removed")
		return nil
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	checklistCmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write to file instead of stdout")
	restoreCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	resetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	configInitCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "overwrite an existing file")
	keySetCmd.Flags().StringVar(&keyValue, "value", "", "key value (prompted when omitted)")

	configCmd.AddCommand(configShowCmd, configInitCmd)
	keyCmd.AddCommand(keySetCmd, keyDeleteCmd)
	rootCmd.AddCommand(
		summaryCmd,
		adviseCmd,
		backdropCmd,
		checklistCmd,
		importCmd,
		exportCmd,
		restoreCmd,
		resetCmd,
		configCmd,
		keyCmd,
	)
}

// confirm asks a yes/no question on the terminal.
func confirm(question string) bool {
	var ok bool
	if err := huh.NewConfirm().Title(question).Value(&ok).Run(); err != nil {
		return false
	}
	return ok
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
