// Kahani - Hybrid Media Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Srijan272002/Kahani-sub000

/*
Package services adapts long-running components to suture.Service.

Each wrapper implements:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer so the supervisor can name it in its event log.

HTTPServerService turns http.Server's blocking ListenAndServe into a Serve
that drains connections with Shutdown when the context is cancelled:

	server := &http.Server{Addr: ":8080", Handler: router}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
*/
package services
