// Package crewsdk is a Go client for the crew membership service.
//
// Unauthenticated operations hang off a Client:
//
//	client := crewsdk.NewClient("http://localhost:8080")
//	inv, err := client.ValidateInvitation(ctx, "ABC123")
//
// Joining with a password returns a signed-in Session, as does SignIn:
//
//	session, result, err := client.JoinWithPassword(ctx, crewsdk.PasswordJoinRequest{...})
//	session, err := client.SignIn(ctx, "jo@example.com", "s3cret")
//
// A Session carries the bearer token for the member and admin operations:
//
//	org, err := session.CreateOrganization(ctx, "Acme Print")
//	inv, err := session.MintInvitation(ctx, org.ID, crewsdk.MintInvitationRequest{RoleID: "operator"})
//
// Failed calls return an *APIError carrying the status code, the error kind
// and, for failed preconditions, the reason ("invalid", "expired",
// "exhausted").
package crewsdk
