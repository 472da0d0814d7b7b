// Package sched runs timing-sensitive actions under realtime scheduling.
//
// A Guard elevates the calling thread to the highest round-robin realtime
// priority of the host, runs an action, yields the processor once and then
// puts the thread back to the scheduling it had before. Elevation is best
// effort: a host refusing it for lack of CAP_SYS_NICE still gets the action
// run, only without the realtime policy.
package sched
