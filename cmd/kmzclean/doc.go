// Package main hosts the kmzclean CLI entrypoint and command graph.
//
// Running kmzclean with no arguments converts every .kmz and .zip archive in
// the working directory into processed_kmz/ and prints a summary table. The
// history and config subcommands inspect the optional ledger and scaffold
// configuration files.
//
// Keep this package lean: conversion logic lives in internal/batch and the
// packages beneath it; commands here only resolve configuration, wire
// dependencies, and render results.
package main
