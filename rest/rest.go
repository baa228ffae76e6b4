package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"voyager.com/dealer/game"
	"voyager.com/dealer/logging"
)

var restLogger = log.With().Str("logger_name", "rest::rest").Logger()

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type tableStatus struct {
	TableID       string          `json:"tableId"`
	InRound       bool            `json:"inRound"`
	DeckRemaining int             `json:"deckRemaining"`
	State         game.TableState `json:"state"`
	Seats         []game.SeatView `json:"seats"`
	History       int             `json:"roundsPlayed"`
}

type handlers struct {
	manager *game.Manager
}

// NewRouter builds the admin routes: table status reads plus the table and round
// commands (seat, leave, start, fold, end).
func NewRouter(manager *game.Manager) *gin.Engine {
	h := &handlers{manager: manager}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/alive", func(c *gin.Context) {
		c.String(http.StatusOK, "alive")
	})
	r.GET("/tables", h.listTables)
	r.GET("/tables/:tableID", h.getTable)
	r.GET("/tables/:tableID/result", h.getLastResult)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/tables", h.newTable)
	r.POST("/tables/:tableID/players", h.addPlayer)
	r.DELETE("/tables/:tableID/players/:playerID", h.removePlayer)
	r.POST("/tables/:tableID/players/:playerID/fold", h.fold)
	r.POST("/tables/:tableID/start", h.startRound)
	r.POST("/tables/:tableID/end", h.endRound)
	return r
}

func RunRestServer(manager *game.Manager, port int) error {
	r := NewRouter(manager)
	addr := fmt.Sprintf(":%d", port)
	restLogger.Info().Msgf("Admin server listening on %s", addr)
	return r.Run(addr)
}

func (h *handlers) listTables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tables": h.manager.Tables()})
}

func (h *handlers) getTable(c *gin.Context) {
	tableID := c.Param("tableID")
	dealer, err := h.manager.Table(tableID)
	if err != nil {
		h.reportError(c, tableID, err)
		return
	}
	c.JSON(http.StatusOK, statusOf(tableID, dealer))
}

func statusOf(tableID string, dealer *game.Dealer) tableStatus {
	return tableStatus{
		TableID:       tableID,
		InRound:       dealer.InRound(),
		DeckRemaining: dealer.DeckRemaining(),
		State:         dealer.State(),
		Seats:         dealer.Seats(),
		History:       len(dealer.History()),
	}
}

func (h *handlers) getLastResult(c *gin.Context) {
	tableID := c.Param("tableID")
	if _, err := h.manager.Table(tableID); err != nil {
		h.reportError(c, tableID, err)
		return
	}
	result, exists := h.manager.LastResult(tableID)
	if !exists {
		c.JSON(http.StatusNotFound, appError{
			Code:    http.StatusNotFound,
			Message: fmt.Sprintf("No round has ended at table %s", tableID),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) reportError(c *gin.Context, tableID string, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrTableNotFound), errors.Is(err, game.ErrPlayerNotFound):
		code = http.StatusNotFound
	case errors.Is(err, game.ErrInsufficientPlayers),
		errors.Is(err, game.ErrRoundInProgress),
		errors.Is(err, game.ErrNoRound),
		errors.Is(err, game.ErrDuplicatePlayer),
		errors.Is(err, game.ErrTableFull):
		code = http.StatusConflict
	default:
		restLogger.Error().Err(err).Str(logging.TableIDKey, tableID).Msg("Request failed")
	}
	c.JSON(code, appError{
		Code:    code,
		Message: err.Error(),
	})
}
