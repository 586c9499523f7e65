// Package sanction provides an approval workflow for privileged commands.
//
// A requester submits a command (update an account, change its role, delete
// a tournament or a training); the command is stored as a pending request
// and runs only once an authenticated approver executes it. Each request is
// executed at most once.
//
// The root package wires the workflow from configuration:
//
//	cfg, _ := sanction.LoadConfig(ctx, "sanction.yaml")
//	srv, _ := sanction.New(ctx, sanction.WithConfig(cfg))
//	defer srv.Close(ctx)
//	id, _ := srv.Approvals().Create(ctx, command.DeleteTournament{ID: "t1"}, requesterID)
//	_ = srv.Approvals().Execute(ctx, id, approverID)
//
// Storage, locking and event delivery are pluggable; see Config.
package sanction
