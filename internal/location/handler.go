package location

import "github.com/gofiber/fiber/v2"

// Locations is the closed catalogue of branch locations expenses and floats
// are scoped to. Matching elsewhere is exact and case-sensitive.
var Locations = []string{
	"SALES - CORPORATE SALES",
	"HEAD OFFICE FINANCE LOCATION",
	"SALES EXPORTS",
	"ENGINEERING INSTALLATIONS - NAIROBI",
	"ENGINEERING INSTALLATIONS - MOMBASA",
	"BONDED WAREHOUSE RUIRU NO. 577 - BW3",
	"WAREHOUSE RUIRU - RHW1",
	"SALES - ONLINE SALES",
	"SHOWROOM SARIT CENTRE - SCR",
	"SHOWROOM LIKONI MALL MOMBASA - MSR",
	"CLEARANCE SALE",
	"SHOWROOM GARDEN CITY - GCS",
	"SHOWROOM VILLAGE MARKET - VMR",
	"SHOWROOM NYALI CENTRE MOMBASA - MSN",
	"SHOWROOM RUIRU D02 SALES - RHSR2",
	"SHOWROOM IMARA MALL - IMR",
	"SHOWROOM BINAA COMPLEX KAREN - KRN",
	"SHOWROOM CBD 680 HOTEL - CBD",
	"SHOWROOM ELDORET RUPAS MALL - ELD",
	"SHOWROOM YAYA CENTER - YCR",
	"SHOWROOM VICTORIA SQUARE RIARA - RSR",
	"SHOWROOM MEGA CITY KISUMU - KSM",
	"SERVICE CENTRE LIKONI MOMBASA - MSS",
	"SERVICE SARIT CENTRE - SCP",
	"SERVICE HEAD OFFICE RUIRU - SCS",
}

// GET /api/locations
func ListLocationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"locations": Locations})
	}
}
