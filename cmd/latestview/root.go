package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/latestview/internal/client"
	"github.com/vovakirdan/latestview/internal/config"
	applog "github.com/vovakirdan/latestview/internal/log"
	"github.com/vovakirdan/latestview/internal/relay"
	"github.com/vovakirdan/latestview/internal/roomid"
)

type globalFlags struct {
	configPath string
	serverURL  string
	roomFile   string
	userAgent  string
	logLevel   string
}

// env is what every subcommand needs once configuration is resolved.
type env struct {
	cfg  config.ClientConfig
	log  *zerolog.Logger
	ids  roomid.Store
	api  *client.Client
	loc  *time.Location
	caps relay.Capabilities
	in   io.Reader
	out  io.Writer
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	e := &env{}

	cmd := &cobra.Command{
		Use:           "latestview",
		Short:         "Write on one device, read the latest message on another",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd, flags)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLanding(cmd, e)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to client.yaml (created with defaults if missing)")
	pf.StringVar(&flags.serverURL, "server", "", "latestview server URL")
	pf.StringVar(&flags.roomFile, "room-file", "", "file holding the room id")
	pf.StringVar(&flags.userAgent, "user-agent", "", "device user agent used to pick write or view")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newRoomCmd(e), newWriteCmd(e), newViewCmd(e))
	return cmd
}

func (e *env) setup(cmd *cobra.Command, flags globalFlags) error {
	bootLog := applog.New("warn", "console")

	cfg, _, err := config.LoadClient(bootLog, flags.configPath)
	if err != nil {
		return err
	}
	if flags.serverURL != "" {
		cfg.ServerURL = flags.serverURL
	}
	if flags.roomFile != "" {
		cfg.RoomFile = flags.roomFile
	}
	if flags.userAgent != "" {
		cfg.UserAgent = flags.userAgent
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}

	logger := applog.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	api, err := client.New(cfg.ServerURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithUserAgent(userAgentHeader(cfg.UserAgent)),
		client.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	loc, err := relay.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		logger.Warn().Err(err).Str("timezone", cfg.DisplayTimezone).Msg("unknown display timezone, using UTC")
	}

	e.cfg = cfg
	e.log = logger
	e.ids = roomid.NewFileStore(cfg.RoomFile)
	e.api = api
	e.loc = loc
	e.caps = relay.UserAgentCapabilities(cfg.UserAgent)
	e.in = cmd.InOrStdin()
	e.out = cmd.OutOrStdout()
	return nil
}

func userAgentHeader(ua string) string {
	if ua == "" {
		return "latestview"
	}
	return ua
}

// runLanding routes to the screen the device should start on.
func runLanding(cmd *cobra.Command, e *env) error {
	dest, err := relay.Route(e.ids, e.caps)
	if err != nil {
		return err
	}
	e.log.Debug().Str("destination", string(dest)).Msg("landing route")

	switch dest {
	case relay.DestinationRoomSetup:
		return showRoom(e)
	case relay.DestinationWrite:
		return runWrite(cmd, e, nil)
	default:
		return runView(cmd.Context(), e, viewOptions{})
	}
}

// explainRedirect prints guidance when err asks to go to another screen.
func explainRedirect(e *env, err error) error {
	if to, ok := relay.RedirectTarget(err); ok && to == relay.DestinationRoomSetup {
		fmt.Fprintln(e.out, "no room id is set; run `latestview room --generate` or `latestview room <id>`")
	}
	return err
}
