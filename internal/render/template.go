package render

// heatmapHTML is the self-contained Leaflet document. Points and the
// boundary outline are embedded as plain JSON: the output is anonymized by
// the jitter pass, not by the file format.
const heatmapHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Anonymized Density Heatmap</title>
    <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
    <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
    <script src="https://unpkg.com/leaflet.heat@0.2.0/dist/leaflet-heat.js"></script>
    <style>
        html, body, #map { height: 100%; margin: 0; }

        .legend {
            position: fixed;
            bottom: 50px;
            left: 50px;
            width: 150px;
            border: 2px solid grey;
            border-radius: 4px;
            z-index: 9999;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            font-size: 14px;
            background-color: white;
            padding: 8px 10px;
        }

        .legend .swatch {
            display: inline-block;
            width: 12px;
            height: 12px;
            margin-left: 6px;
            vertical-align: middle;
        }
    </style>
</head>
<body>
    <div id="map"></div>
    <div class="legend">
        <b>Density</b><br>
        High <span class="swatch" style="background: red"></span><br>
        Medium <span class="swatch" style="background: yellowgreen"></span><br>
        Low <span class="swatch" style="background: blue"></span>
    </div>
    <script>
        const heatPoints = {{.Points}};
        const boundaryOutline = {{.Outline}};

        const map = L.map('map', {
            center: [39.82, -98.57],
            zoom: 5,
            minZoom: 4,
            zoomSnap: 0.25,
            zoomDelta: 0.25,
            maxBounds: [[24, -125], [50, -66]]
        });

        L.tileLayer('https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png', {
            attribution: '&copy; OpenStreetMap contributors &copy; CARTO',
            subdomains: 'abcd',
            maxZoom: 20
        }).addTo(map);

        map.fitBounds([[24, -125], [50, -66]]);

        if (boundaryOutline) {
            L.geoJSON(boundaryOutline, {
                style: { color: '#555555', weight: 1, fill: false }
            }).addTo(map);
        }

        if (heatPoints.length > 0) {
            L.heatLayer(heatPoints, {
                radius: {{.HeatRadius}},
                blur: {{.HeatBlur}}
            }).addTo(map);
        }
    </script>
</body>
</html>
`
