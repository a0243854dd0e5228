// Package ratelimit paces calls to the platform.
//
// Interval puts a fixed, cancellable pause between successive per-post
// downloads. TokenBucket spreads HTTP requests evenly with a small burst,
// SlidingWindow caps them over a longer window, and Chain combines the two
// for the platform client.
//
//	pacer := ratelimit.NewInterval(10 * time.Second)
//	for _, post := range posts {
//	    if err := pacer.Wait(ctx); err != nil {
//	        return err // cancelled
//	    }
//	    // fetch likers
//	}
package ratelimit
