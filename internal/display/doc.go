// Package display ties the calorimeters, the camera and the current event
// together and drives them frame by frame.
//
// Responsibilities: camera state and its conversion into calorimeter viewer
// angles, loading events into the calorimeters, the fixed-rate frame loop,
// and building all of it from a config.DisplayConfig.
// Key types: Camera, Scene, Loop.
package display
