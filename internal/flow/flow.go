// Package flow defines the SunBun assistant conversation graph: entry menu,
// OTP authentication, customer lookup, service triage, and sales proposal
// intake. Nodes read the typed session state and return patches; routers
// dispatch on step markers so that re-running the graph against a persisted
// state never repeats a prompt.
package flow

import (
	"log/slog"

	"github.com/sunbun/assistant/internal/logging"
	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/graph"
	"github.com/sunbun/assistant/pkg/ports"
)

// Node IDs. The entry node is also the dispatcher target for every resumed
// run: routers fan out from there based on the persisted state.
const (
	NodeEntry graph.NodeID = "entry"

	NodeAuthCollect graph.NodeID = "auth_collect_contact"
	NodeAuthSendOTP graph.NodeID = "auth_send_otp"
	NodeAuthVerify  graph.NodeID = "auth_verify_otp"
	NodeAuthFailed  graph.NodeID = "auth_failed"
	NodeAuthReset   graph.NodeID = "auth_reset"
	NodeClose       graph.NodeID = "close"

	NodeLookup       graph.NodeID = "customer_lookup"
	NodeLookupChoice graph.NodeID = "lookup_choice"

	NodeServiceStatus       graph.NodeID = "service_status_check"
	NodeServiceCapture      graph.NodeID = "service_issue_capture"
	NodeServiceContext      graph.NodeID = "service_issue_context"
	NodeServiceAvailability graph.NodeID = "service_availability_check"
	NodeServiceLiveChat     graph.NodeID = "service_live_chat"
	NodeServiceTicket       graph.NodeID = "service_ticket_create"
	NodeServiceNPS          graph.NodeID = "service_nps_close"
	NodeServiceUnregistered graph.NodeID = "service_unregistered"

	NodeSalesStart    graph.NodeID = "sales_start"
	NodeSalesReview   graph.NodeID = "sales_proposal_review"
	NodeSalesCapture  graph.NodeID = "sales_info_capture"
	NodeSalesGenerate graph.NodeID = "sales_proposal_generate"
	NodeSalesConfirm  graph.NodeID = "sales_proposal_confirm"
	NodeSalesHandoff  graph.NodeID = "sales_handoff"
)

// Deps are the data collaborators the flow nodes consult.
type Deps struct {
	Directory ports.CustomerDirectory
	OTP       ports.OTPVerifier
	Telemetry ports.SiteTelemetry
	Catalog   ports.ProposalCatalog
	Presence  ports.AgentPresence
	Logger    *slog.Logger
}

// Build assembles the conversation graph.
func Build(deps Deps) *graph.Graph {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	g := graph.New(NodeEntry)

	g.AddNode(NodeEntry, entryNode).AddRouter(NodeEntry, entryRouter)

	g.AddNode(NodeAuthCollect, authCollectNode).AddRouter(NodeAuthCollect, authCollectRouter)
	g.AddNode(NodeAuthSendOTP, authSendOTPNode).AddRouter(NodeAuthSendOTP, endRouter)
	g.AddNode(NodeAuthVerify, authVerifyNode(deps)).AddRouter(NodeAuthVerify, authVerifyRouter)
	g.AddNode(NodeAuthFailed, authFailedNode).AddRouter(NodeAuthFailed, endRouter)
	g.AddNode(NodeAuthReset, authResetNode).AddEdge(NodeAuthReset, NodeAuthCollect)
	g.AddNode(NodeClose, closeNode).AddRouter(NodeClose, endRouter)

	g.AddNode(NodeLookup, lookupNode(deps)).AddRouter(NodeLookup, lookupRouter)
	g.AddNode(NodeLookupChoice, lookupChoiceNode).AddRouter(NodeLookupChoice, lookupChoiceRouter)

	g.AddNode(NodeServiceStatus, serviceStatusNode(deps)).AddRouter(NodeServiceStatus, serviceResolutionRouter)
	g.AddNode(NodeServiceCapture, serviceCaptureNode).AddRouter(NodeServiceCapture, serviceCaptureRouter)
	g.AddNode(NodeServiceContext, serviceContextNode).AddRouter(NodeServiceContext, serviceContextRouter)
	g.AddNode(NodeServiceAvailability, serviceAvailabilityNode(deps)).AddRouter(NodeServiceAvailability, serviceAvailabilityRouter)
	g.AddNode(NodeServiceLiveChat, serviceLiveChatNode).AddRouter(NodeServiceLiveChat, endRouter)
	g.AddNode(NodeServiceTicket, serviceTicketNode).AddRouter(NodeServiceTicket, endRouter)
	g.AddNode(NodeServiceNPS, serviceNPSNode).AddRouter(NodeServiceNPS, endRouter)
	g.AddNode(NodeServiceUnregistered, serviceUnregisteredNode).AddRouter(NodeServiceUnregistered, serviceUnregisteredRouter)

	g.AddNode(NodeSalesStart, salesStartNode(deps)).AddRouter(NodeSalesStart, salesRouter)
	g.AddNode(NodeSalesReview, salesReviewNode).AddRouter(NodeSalesReview, salesRouter)
	g.AddNode(NodeSalesCapture, salesCaptureNode).AddRouter(NodeSalesCapture, salesRouter)
	g.AddNode(NodeSalesGenerate, salesGenerateNode(deps)).AddRouter(NodeSalesGenerate, salesRouter)
	g.AddNode(NodeSalesConfirm, salesConfirmNode(deps)).AddRouter(NodeSalesConfirm, salesRouter)
	g.AddNode(NodeSalesHandoff, salesHandoffNode).AddRouter(NodeSalesHandoff, endRouter)

	return g
}

func endRouter(*domain.State) graph.NodeID { return graph.End }
