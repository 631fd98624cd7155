package handlers

import (
	"github.com/mauv0809/team-planner/internal/availability"
	"github.com/mauv0809/team-planner/internal/opportunity"
	"github.com/mauv0809/team-planner/internal/roster"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// AuthCookieName is the cookie set by a successful login.
const AuthCookieName = "planner_auth"

type AuthRequest struct {
	Password string `json:"password"`
}

type PlayerRequest struct {
	Name string      `json:"name"`
	Role roster.Role `json:"role"`
}

type ActiveRequest struct {
	Active bool `json:"active"`
}

type OrderRequest struct {
	IDs []string `json:"ids"`
}

type StatusRequest struct {
	Status availability.Status `json:"status"`
}

type HoursStatusRequest struct {
	Hours  []string            `json:"hours"`
	Status availability.Status `json:"status"`
}

type WindowDay struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	// Windows counts the practice windows found in stored data.
	Windows int `json:"windows"`
}

type WindowResponse struct {
	Dates   []WindowDay `json:"dates"`
	Current int         `json:"current"`
}

type OpportunityResponse struct {
	opportunity.Opportunity
	Label string `json:"label"`
}

type OpportunitiesResponse struct {
	Date          string                `json:"date"`
	Opportunities []OpportunityResponse `json:"opportunities"`
}

type DeleteDayResponse struct {
	Date    string `json:"date"`
	Deleted int64  `json:"deleted"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
