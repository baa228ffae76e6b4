package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"voyager.com/dealer/game"
	"voyager.com/dealer/logging"
)

type seatRequest struct {
	ID    uint64 `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Chips uint32 `json:"chips"`
}

type newTableResponse struct {
	TableID string `json:"tableId"`
}

func (h *handlers) newTable(c *gin.Context) {
	dealer := h.manager.NewTable()
	c.JSON(http.StatusCreated, newTableResponse{TableID: dealer.TableID()})
}

func (h *handlers) addPlayer(c *gin.Context) {
	tableID := c.Param("tableID")
	var req seatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		restLogger.Error().Msgf("Failed to parse seat request. Error: %v", err)
		c.JSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}
	dealer, err := h.manager.Table(tableID)
	if err != nil {
		h.reportError(c, tableID, err)
		return
	}
	if err := dealer.AddPlayer(game.NewPlayer(req.ID, req.Name, req.Chips)); err != nil {
		h.reportError(c, tableID, err)
		return
	}
	c.JSON(http.StatusOK, dealer.Seats())
}

func (h *handlers) removePlayer(c *gin.Context) {
	h.withPlayer(c, func(dealer *game.Dealer, playerID uint64) error {
		return dealer.RemovePlayer(playerID)
	})
}

func (h *handlers) fold(c *gin.Context) {
	h.withPlayer(c, func(dealer *game.Dealer, playerID uint64) error {
		return dealer.Fold(playerID)
	})
}

func (h *handlers) withPlayer(c *gin.Context, f func(*game.Dealer, uint64) error) {
	tableID := c.Param("tableID")
	playerID, err := strconv.ParseUint(c.Param("playerID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: "Invalid player id " + c.Param("playerID"),
		})
		return
	}
	dealer, err := h.manager.Table(tableID)
	if err != nil {
		h.reportError(c, tableID, err)
		return
	}
	if err := f(dealer, playerID); err != nil {
		h.reportError(c, tableID, err)
		return
	}
	c.JSON(http.StatusOK, dealer.Seats())
}

func (h *handlers) startRound(c *gin.Context) {
	tableID := c.Param("tableID")
	dealer, err := h.manager.Table(tableID)
	if err != nil {
		h.reportError(c, tableID, err)
		return
	}
	if err := dealer.StartGame(); err != nil {
		h.reportError(c, tableID, err)
		return
	}
	restLogger.Info().Str(logging.TableIDKey, tableID).Uint32(logging.RoundKey, dealer.State().Round).Msg("Round started")
	c.JSON(http.StatusOK, statusOf(tableID, dealer))
}

func (h *handlers) endRound(c *gin.Context) {
	tableID := c.Param("tableID")
	dealer, err := h.manager.Table(tableID)
	if err != nil {
		h.reportError(c, tableID, err)
		return
	}
	result, err := dealer.EndGame()
	if err != nil {
		h.reportError(c, tableID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
