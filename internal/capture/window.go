package capture

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
)

// foregroundWindow returns the active application name and window title.
// Both are best-effort: on platforms or sessions where the probe fails,
// empty strings come back and the entry is stored without them.
func foregroundWindow(ctx context.Context) (app, title string) {
	switch runtime.GOOS {
	case "darwin":
		app = runProbe(ctx, "osascript", "-e",
			`tell application "System Events" to get name of first process whose frontmost is true`)
		title = runProbe(ctx, "osascript", "-e",
			`tell application "System Events" to get title of front window of (first process whose frontmost is true)`)
	case "linux":
		app = runProbe(ctx, "xdotool", "getactivewindow", "getwindowclassname")
		title = runProbe(ctx, "xdotool", "getactivewindow", "getwindowname")
	}
	return app, title
}

func runProbe(ctx context.Context, name string, args ...string) string {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
