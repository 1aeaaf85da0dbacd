package emulator

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	backendclient "github.com/Apurer/go-order-dispatch/internal/clients/http/backend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/httpbackend"
)

// inboundRequest defers parameter decoding until the command is known.
type inboundRequest struct {
	Command           string          `json:"Command"`
	CommandParameters json.RawMessage `json:"CommandParameters"`
}

// menuItem mirrors backendclient.MenuItem with a numeric price, as the real
// backend sends it.
type menuItem struct {
	ID         string      `json:"Id"`
	Article    string      `json:"Article"`
	Name       string      `json:"Name"`
	Price      json.Number `json:"Price"`
	IsWeighted bool        `json:"IsWeighted"`
	FullPath   string      `json:"FullPath"`
	Barcodes   []string    `json:"Barcodes"`
}

func toMenuItems(items []backendclient.MenuItem) []menuItem {
	out := make([]menuItem, 0, len(items))
	for _, item := range items {
		out = append(out, menuItem{
			ID:         item.ID,
			Article:    item.Article,
			Name:       item.Name,
			Price:      json.Number(item.Price.String()),
			IsWeighted: item.IsWeighted,
			FullPath:   item.FullPath,
			Barcodes:   item.Barcodes,
		})
	}
	return out
}

// Credentials enable basic auth on the envelope endpoint when both are set.
type Credentials struct {
	Username string
	Password string
}

// NewHTTPHandler exposes the backend on POST / using the command envelope.
func NewHTTPHandler(backend *Backend, creds Credentials) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	handlers := []gin.HandlerFunc{}
	if creds.Username != "" && creds.Password != "" {
		handlers = append(handlers, gin.BasicAuth(gin.Accounts{creds.Username: creds.Password}))
	}
	handlers = append(handlers, backend.handleCommand)
	router.POST("/", handlers...)
	return router
}

func (b *Backend) handleCommand(c *gin.Context) {
	var req inboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, backendclient.Response{ErrorMessage: "Malformed request: " + err.Error()})
		return
	}
	switch req.Command {
	case backendclient.CommandGetMenu:
		var params backendclient.GetMenuParameters
		if !decodeParams(c, req, &params) {
			return
		}
		items := toMenuItems(httpbackend.FromDishes(b.Menu(c.Request.Context(), params.WithPrice)))
		data, err := json.Marshal(map[string][]menuItem{"MenuItems": items})
		if err != nil {
			c.JSON(http.StatusInternalServerError, backendclient.Response{Command: req.Command, ErrorMessage: err.Error()})
			return
		}
		c.JSON(http.StatusOK, backendclient.Response{Command: req.Command, Success: true, Data: data})
	case backendclient.CommandSendOrder:
		var params backendclient.SendOrderParameters
		if !decodeParams(c, req, &params) {
			return
		}
		lines, invalid := linesFromParams(params)
		if invalid != "" {
			c.JSON(http.StatusOK, backendclient.Response{Command: req.Command, ErrorMessage: invalid})
			return
		}
		result := b.Order(c.Request.Context(), params.OrderID, lines)
		c.JSON(http.StatusOK, backendclient.Response{Command: req.Command, Success: result.Accepted, ErrorMessage: result.ErrorMessage})
	default:
		c.JSON(http.StatusOK, backendclient.Response{Command: req.Command, ErrorMessage: fmt.Sprintf("Unknown command: %s", req.Command)})
	}
}

func decodeParams(c *gin.Context, req inboundRequest, out any) bool {
	if len(req.CommandParameters) == 0 {
		return true
	}
	if err := json.Unmarshal(req.CommandParameters, out); err != nil {
		c.JSON(http.StatusOK, backendclient.Response{Command: req.Command, ErrorMessage: "Invalid command parameters: " + err.Error()})
		return false
	}
	return true
}

// linesFromParams returns the rejection message of the first unparsable quantity.
func linesFromParams(params backendclient.SendOrderParameters) ([]Line, string) {
	lines := make([]Line, 0, len(params.MenuItems))
	for _, item := range params.MenuItems {
		quantity, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			return nil, fmt.Sprintf("Invalid quantity for %s", item.ID)
		}
		lines = append(lines, Line{DishID: item.ID, Quantity: quantity})
	}
	return lines, ""
}
