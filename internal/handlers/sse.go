package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/requestdata"
  "github.com/chefboard/chefboard-backend/internal/sse"
)

type SSEHandler struct {
  hub *sse.SSEHub
}

func NewSSEHandler(hub *sse.SSEHub) *SSEHandler {
  return &SSEHandler{hub: hub}
}

// SSEStream opens the event stream. Every client is subscribed to its own
// user channel; extra channels can be added per request via ?channels=.
func (sh *SSEHandler) SSEStream(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }

  client := sh.hub.NewSSEClient(rd.UserID)
  sh.hub.AddChannel(client, sse.UserChannel(rd.UserID))
  for _, ch := range c.QueryArray("channels") {
    sh.hub.AddChannel(client, ch)
  }
  defer sh.hub.CloseClient(client)

  sh.hub.ServeHTTP(c.Writer, c.Request, client)
}
