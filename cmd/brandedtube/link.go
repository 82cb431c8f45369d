package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/brandedtube/brandedtube/internal/embed"
	"github.com/brandedtube/brandedtube/internal/youtube"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type linkOutput struct {
	VideoID   string             `json:"videoId" yaml:"videoId"`
	PlayerURL string             `json:"playerUrl" yaml:"playerUrl"`
	Config    embed.PlayerConfig `json:"config" yaml:"config"`
}

// settingsFlags mirror the editor form.
type settingsFlags struct {
	autoplay   bool
	controls   bool
	brand      string
	brandColor string
	playColor  string
	playSize   int
}

func (f *settingsFlags) register(fs *pflag.FlagSet) {
	d := embed.DefaultSettings()
	fs.BoolVar(&f.autoplay, "autoplay", d.Autoplay, "Start playing muted as soon as the player is ready")
	fs.BoolVar(&f.controls, "controls", d.ShowControls, "Show the progress, volume and fullscreen bar")
	fs.StringVar(&f.brand, "brand", d.BrandName, "Brand name for the watermark")
	fs.StringVar(&f.brandColor, "brand-color", d.BrandColor, "Brand color (#RRGGBB)")
	fs.StringVar(&f.playColor, "play-color", d.PlayButtonColor, "Play button color (#RRGGBB)")
	fs.IntVar(&f.playSize, "play-size", d.PlayButtonSize, "Play button size in pixels (32-128)")
	fs.String(baseURL.key, baseURL.defaultValue, baseURL.usage)
}

func (f *settingsFlags) settings(source string) embed.Settings {
	return embed.DefaultSettings().With(func(s *embed.Settings) {
		s.SourceURL = source
		s.Autoplay = f.autoplay
		s.ShowControls = f.controls
		s.BrandName = f.brand
		s.BrandColor = f.brandColor
		s.PlayButtonColor = f.playColor
		s.PlayButtonSize = min(max(f.playSize, embed.MinPlayButtonSize), embed.MaxPlayButtonSize)
	})
}

func compose(cmd *cobra.Command, configFile string, s embed.Settings, width, height int) (embed.Composition, error) {
	v, err := newViper(cmd.Flags(), configFile)
	if err != nil {
		return embed.Composition{}, err
	}
	c := embed.Compose(v.GetString(baseURL.key), s, width, height)
	if !c.Valid {
		return embed.Composition{}, fmt.Errorf("%w: %q", youtube.ErrInvalidURL, s.SourceURL)
	}
	return c, nil
}

func newLinkCmd(configFile *string) *cobra.Command {
	var (
		flags  settingsFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "link <youtube-url>",
		Short: "Print the branded player URL for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := compose(cmd, *configFile, flags.settings(args[0]), 0, 0)
			if err != nil {
				return err
			}
			return writeLink(cmd.OutOrStdout(), format, linkOutput{
				VideoID:   c.VideoID,
				PlayerURL: c.PlayerURL,
				Config:    c.Config,
			})
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	return cmd
}

func writeLink(w io.Writer, format string, out linkOutput) error {
	switch format {
	case formatText:
		_, err := fmt.Fprintln(w, out.PlayerURL)
		return err
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func newEmbedCmd(configFile *string) *cobra.Command {
	var (
		flags         settingsFlags
		width, height int
		copyToClip    bool
	)
	cmd := &cobra.Command{
		Use:   "embed <youtube-url>",
		Short: "Print the iframe embed code for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := compose(cmd, *configFile, flags.settings(args[0]), width, height)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), c.Snippet); err != nil {
				return err
			}
			if copyToClip {
				copySnippet(cmd.ErrOrStderr(), c.Snippet)
			}
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().IntVar(&width, "width", embed.DefaultWidth, "iframe width in pixels")
	cmd.Flags().IntVar(&height, "height", embed.DefaultHeight, "iframe height in pixels")
	cmd.Flags().BoolVar(&copyToClip, "copy", false, "Also copy the embed code to the clipboard")
	return cmd
}

// copySnippet never fails the command; a missing clipboard is only reported.
func copySnippet(w io.Writer, snippet string) {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable", "error", err)
		color.New(color.FgYellow).Fprintln(w, "Clipboard unavailable, copy the code above manually.")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(snippet))
	color.New(color.FgGreen).Fprintln(w, "Copied!")
}
