package apiserver

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/login-gateway/internal/business"
	"github.com/openkcm/login-gateway/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"api-server",
		"Login Gateway API server",
		"Login Gateway API server runs the OAuth 2.0 authorization code flow with PKCE and issues session cookies.",
		buildInfo,
		cmdutils.RunAsService,
		business.Main,
	)
}
