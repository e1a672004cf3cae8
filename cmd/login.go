package cmd

import (
	"fmt"

	"github.com/chrismacdonaldw/kattis-grind/client"
	"github.com/chrismacdonaldw/kattis-grind/internal/config"
	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check that Kattis accepts your credentials",
	Long: `Log in to Kattis with the username and token from your .kattisrc.

Kattis hands out a personal .kattisrc with your token at /download/kattisrc;
--open takes you there so you can save it in place of the default one.

Example:
  kattis-grind login
  kattis-grind login --open`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		open, _ := cmd.Flags().GetBool("open")
		if open {
			return openKattisrcPage()
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := cfg.CheckCredentials(); err != nil {
			return err
		}
		c := client.FromConfig(cfg)
		if err := c.Login(cmd.Context(), cfg.User.Username, cfg.User.Token); err != nil {
			return err
		}

		fmt.Println(green.Render("✓ Logged in as " + cfg.User.Username))
		fmt.Println(gray.Render("You're ready to submit!"))
		return nil
	},
}

// openKattisrcPage works without a configuration, since fetching the
// first .kattisrc is what it is for.
func openKattisrcPage() error {
	base := "https://" + config.DefaultHostname
	dest, err := config.DefaultPath()
	if err != nil {
		return err
	}
	if cfg, err := config.Load(); err == nil {
		base = cfg.Kattis.BaseURL()
		dest = cfg.Path
	}

	url := base + "/download/kattisrc"
	fmt.Printf("Opening %s...\n", url)
	if err := browser.OpenURL(url); err != nil {
		log.WithError(err).Warn("could not open a browser")
	}
	fmt.Println(gray.Render("Save the file as " + dest + " and run 'kattis-grind login' again"))
	return nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().Bool("open", false, "Open the page that hands out your .kattisrc")
}
