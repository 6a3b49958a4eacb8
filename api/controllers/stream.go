package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/api/responses"
	"github.com/stocktrail/stocktrail-backend/internal/realtime"
	"github.com/stocktrail/stocktrail-backend/pkg/config"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
)

// Stream serves the live event feed over server-sent events. Clients pick
// their hub groups with ?groups=a,b; an empty selection joins "all".
func Stream(hub *realtime.Hub, streamCfg config.StreamConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "event hub unavailable"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming not supported by this connection"))
			return
		}

		groups, err := parseStreamGroups(r.URL.Query().Get("groups"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub := hub.Join(groups)
		defer hub.Leave(sub)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{"subscriber": sub.ID, "groups": groups})
			logg.Info(ctx, "stream.subscribed")
		}

		heartbeat := time.NewTicker(streamCfg.HeartbeatEvery)
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				if logg != nil {
					logg.Info(ctx, "stream.closed")
				}
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": heartbeat\n\n")
				flusher.Flush()
			case event, open := <-sub.Events:
				if !open {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					if logg != nil {
						logg.Error(ctx, "stream.encode_failed", err)
					}
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
				flusher.Flush()
			}
		}
	}
}

func parseStreamGroups(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{realtime.GroupAll}, nil
	}

	parts := strings.Split(raw, ",")
	groups := make([]string, 0, len(parts))
	for _, part := range parts {
		group := strings.TrimSpace(part)
		switch {
		case group == "":
			continue
		case group == realtime.GroupAll || group == realtime.GroupDashboard:
		case strings.HasPrefix(group, "product:"):
			if _, err := uuid.Parse(strings.TrimPrefix(group, "product:")); err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product group %q", group))
			}
		case strings.HasPrefix(group, "role:"):
			if strings.TrimPrefix(group, "role:") == "" {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "role group needs a role name")
			}
		default:
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown stream group %q", group))
		}
		groups = append(groups, group)
	}

	if len(groups) == 0 {
		return []string{realtime.GroupAll}, nil
	}
	return groups, nil
}
