package svc

import (
	"context"

	"github.com/lightgame/panel/internal/shell"
)

type workspaceKey struct{}

func WithWorkspace(ctx context.Context, ws *shell.Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey{}, ws)
}

// WorkspaceFrom returns the workspace attached by the workspace middleware.
func WorkspaceFrom(ctx context.Context) (*shell.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey{}).(*shell.Workspace)
	return ws, ok && ws != nil
}
