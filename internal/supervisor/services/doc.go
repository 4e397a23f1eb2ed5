// Sessionfeed - DJ Session Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionfeed

/*
Package services provides suture.Service wrappers for Sessionfeed components.

Each wrapper translates a component's lifecycle into suture's
Serve(ctx) error pattern and implements fmt.Stringer so supervisor events
name the service.

HTTPServerService:
  - Runs ListenAndServe in a goroutine
  - Calls Shutdown with a fresh timeout context when ctx is canceled
  - Treats http.ErrServerClosed as a clean exit

CatalogWatcherService:
  - Calls catalog Reload on every PollInterval tick
  - Ignores catalog.ErrReloadThrottled, which means a manual reload just ran
  - Logs failed reloads and keeps serving the previous catalog
  - Blocks until cancellation when PollInterval is zero

Both return ctx.Err() on cancellation, which suture treats as a normal stop.
*/
package services
