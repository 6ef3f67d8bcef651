package handler

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the ledger API behind requireAuth.
func RegisterRoutes(app fiber.Router, requireAuth fiber.Handler, creditors *CreditorHandler, customers *CustomerHandler, receipts *ReceiptHandler) {
	c := app.Group("/api/creditors", requireAuth)
	c.Get("/", creditors.List)
	c.Get("/:id", creditors.Get)
	c.Post("/", creditors.Create)
	c.Put("/:id", creditors.Update)
	c.Delete("/:id", creditors.Delete)

	cu := app.Group("/api/customers", requireAuth)
	cu.Get("/", customers.List)
	cu.Get("/:id", customers.Get)
	cu.Post("/", customers.Create)
	cu.Put("/:id", customers.Update)
	cu.Delete("/:id", customers.Delete)

	r := app.Group("/api/receipts", requireAuth)
	r.Get("/", receipts.List)
	r.Get("/customer/:customerId", receipts.ListByCustomer)
	r.Get("/:id", receipts.Get)
	r.Post("/", receipts.Create)
	r.Delete("/:id", receipts.Delete)
}
