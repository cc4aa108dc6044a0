// SPDX-FileCopyrightText: 2025 The Wine-Builds authors
//
// SPDX-License-Identifier: MIT

// Package bundle assembles a self-contained directory tree that runs an
// x86_64 WoW64 Wine runtime on an ARM64 Linux host through the FEX binary
// translation engine.
//
// A bundle is built in strictly sequential stages: the Wine runtime archive
// is staged, the translation engine is cross-built, the transitive closure
// of x86_64 shared libraries is resolved against a reference root
// filesystem, the resolved libraries are collected into a flat directory,
// and launcher scripts are generated that wire everything together.
package bundle
