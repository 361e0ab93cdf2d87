package handlers

import (
	"net/http"

	"github.com/yope/ethereum-contract/internal/contracts"
	"github.com/yope/ethereum-contract/internal/platform/db"
	"github.com/yope/ethereum-contract/internal/platform/web"
	"github.com/yope/ethereum-contract/internal/sweeper"
)

// API mounts the route handlers and returns the ready to serve handler.
func API(svc *contracts.Service, node contracts.NodeClient, masterDB *db.DB, swp *sweeper.Sweeper) http.Handler {
	app := web.New(web.RequestLogger)

	c := Contracts{
		Service:  svc,
		MasterDB: masterDB,
		Sweeper:  swp,
	}
	app.Handle("POST", "/contracts", c.Create)
	app.Handle("GET", "/contracts", c.List)
	app.Handle("PUT", "/contracts/{address}", c.Modify)
	app.Handle("POST", "/contracts/{address}", c.Run)
	app.Handle("DELETE", "/contracts/{address}", c.Delete)

	r := Receipts{Node: node}
	app.Handle("GET", "/receipts/{hash}", r.Get)

	h := Health{MasterDB: masterDB}
	app.Handle("GET", "/health", h.Check)

	return app
}
