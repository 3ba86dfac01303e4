// Package chart builds the dashboard's dual-axis fundraising chart.
//
// MakeFigure produces a Plotly figure (bars for Amount Closed on the left
// axis, a line for the selected metric on the right axis) that the browser
// renders with plotly.js. RenderPNG draws the same chart server side with
// go-chart for the static image endpoint and the CLI.
package chart
