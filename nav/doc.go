// Package nav runs the turn-by-turn navigation session: it obtains a
// route from an external routing engine, watches the live position, and
// raises at most one proximity alert per nearby feature per session.
// Route computation, map drawing and speech synthesis are collaborator
// interfaces; only the session state machine lives here.
package nav
